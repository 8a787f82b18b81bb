package registrar

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"server-herald/pkg/retrylimit"
)

// statusError exposes the HTTP status of a discordgo REST error to retrylimit.
type statusError struct {
	*discordgo.RESTError
}

func (e statusError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func (e statusError) Unwrap() error { return e.RESTError }

// classify tags REST errors with their status. Client errors other than 429
// will not get better by retrying and are marked permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	se := statusError{rest}
	code := se.StatusCode()
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return &retrylimit.Permanent{Err: se}
	}
	return se
}
