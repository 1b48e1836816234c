package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/require"
)

func TestTranslateSurveyErr(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, translateSurveyErr(terminal.InterruptErr), ErrAborted)
	require.ErrorIs(t, translateSurveyErr(fmt.Errorf("wrapped: %w", terminal.InterruptErr)), ErrAborted)

	other := errors.New("eof")
	require.ErrorIs(t, translateSurveyErr(other), other)
}

func TestSurveyDriver_Info(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := &surveyDriver{out: &buf}
	require.NoError(t, d.Info(context.Background(), "hello"))
	require.Equal(t, "hello\n", buf.String())
}

func TestSurveyDriver_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &surveyDriver{out: &bytes.Buffer{}}

	_, err := d.Input(ctx, InputConfig{Message: "x"})
	require.ErrorIs(t, err, context.Canceled)
	_, err = d.Password(ctx, InputConfig{Message: "x"})
	require.ErrorIs(t, err, context.Canceled)
	_, err = d.Confirm(ctx, ConfirmConfig{Message: "x"})
	require.ErrorIs(t, err, context.Canceled)
	_, err = d.Select(ctx, SelectConfig{Message: "x", Options: []string{"a"}})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, d.Info(ctx, "x"), context.Canceled)
}
