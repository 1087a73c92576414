// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestIDFromContext(ctx))
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "", RequestIDFromContext(nil)) //nolint:staticcheck // nil-safety contract
}

func TestCanonicalFieldNames(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	logger := WithContext(ContextWithRequestID(context.Background(), "rid-1"), base)
	logger.Info().Str(FieldEvent, "unit.test").Msg("fields")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"rid-1"`)
	assert.Contains(t, out, `"event":"unit.test"`)
}

func TestWithComponentDoesNotPanic(t *testing.T) {
	l := WithComponent("test")
	l.Debug().Msg("component logger works")

	l = WithComponentFromContext(ContextWithRequestID(context.Background(), "rid"), "test")
	l.Debug().Msg("context logger works")
}
