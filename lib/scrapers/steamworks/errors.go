package steamworks

import "fmt"

// FetchError is returned when a documentation page could not be retrieved,
// this includes redirects and any status other than 200.
type FetchError struct {
	Url string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unable to access '%s'", e.Url)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Detail describes the underlying cause, Error() only names the url.
func (e *FetchError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("status %d", e.Status)
}

// MarkupError is returned when a page doesn't have the layout the
// selectors expect.
type MarkupError struct {
	// Heading is empty for page-level elements.
	Heading  string
	Expected string
}

func (e *MarkupError) Error() string {
	if e.Heading == "" {
		return fmt.Sprintf("expected %s on page", e.Expected)
	}
	return fmt.Sprintf("expected %s after heading %q", e.Expected, e.Heading)
}
