package models

// Title identifies an article. Two titles are the same article only when
// the strings are equal.
type Title string

// NoParent is the parent recorded for the start title of a search.
const NoParent Title = ""

// String returns the title text.
func (t Title) String() string {
	return string(t)
}
