package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"user with cause", NewUserErrorWithCause("bad card", cause), ExitUserError},
		{"system", NewSystemErrorWithCause("writing output", cause), ExitSystemError},
		{"wrapped", fmt.Errorf("batch: %w", NewSystemErrorWithCause("writing output", cause)), ExitSystemError},
		{"untyped", cause, ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New(`the keyword "Nope" was not found in the keyword dictionary`)
	err := NewUserErrorWithCause("rendering odd.json", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `rendering odd.json: the keyword "Nope" was not found in the keyword dictionary`, err.Error())
	assert.Equal(t, "disk full", (&ExitError{Code: ExitSystemError, Cause: errors.New("disk full")}).Error())
	assert.Equal(t, "no card", (&ExitError{Code: ExitUserError, Message: "no card"}).Error())
}

func TestPrinterPlainWhenNotTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false).WithStderr(&errOut)

	p.Success("wrote %s", "card.png")
	p.KeyValue("checksum", "abc")
	p.Line("Deal 2 ", "(88px)")
	p.Error(NewUserErrorWithCause("rendering", errors.New("unknown keyword")))
	p.Error(NewSystemErrorWithCause("writing", errors.New("disk full")))

	assert.Equal(t, "wrote card.png\nchecksum:  abc\nDeal 2  (88px)\n", out.String())
	assert.Equal(t, "Error: rendering: unknown keyword\nSystem error: writing: disk full\n", errOut.String())
	assert.False(t, IsTTY(&out))
}
