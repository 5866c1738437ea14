package letterboxd

import (
	"errors"
	"fmt"
)

// ErrFeedUnavailable matches any failure to retrieve the feed.
var ErrFeedUnavailable = errors.New("letterboxd feed unavailable")

// ErrFeedParse matches any failure to read the feed document as RSS.
var ErrFeedParse = errors.New("letterboxd feed could not be parsed")

// ErrMissingHandle indicates no Letterboxd username was supplied.
var ErrMissingHandle = errors.New("letterboxd username is required")

// FeedUnavailableError reports a non-success relay response or a transport failure.
type FeedUnavailableError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *FeedUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch RSS feed: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch RSS feed: %s", e.Status)
}

func (e *FeedUnavailableError) Unwrap() error {
	return e.Err
}

func (e *FeedUnavailableError) Is(target error) bool {
	return target == ErrFeedUnavailable
}

// FeedParseError reports a document that is not the expected RSS markup.
type FeedParseError struct {
	Err error
}

func (e *FeedParseError) Error() string {
	return fmt.Sprintf("failed to parse RSS feed: %v", e.Err)
}

func (e *FeedParseError) Unwrap() error {
	return e.Err
}

func (e *FeedParseError) Is(target error) bool {
	return target == ErrFeedParse
}
