package cmd

import (
	"bytes"
	"context"
	"os"

	"github.com/sqlsage/sqlsage/internal/types"
)

// mockPipeline implements askPipeline for testing
type mockPipeline struct {
	answer    types.Answer
	err       error
	questions []string
}

func (m *mockPipeline) Ask(_ context.Context, question string) (types.Answer, error) {
	m.questions = append(m.questions, question)

	if m.err != nil {
		return types.Answer{}, m.err
	}

	return m.answer, nil
}

// mockStore implements introspector and seeder for testing
type mockStore struct {
	schema        types.SchemaDescription
	introspectErr error
	seedErr       error
	seedCalls     []bool
}

func (m *mockStore) Introspect(_ context.Context, _ int) (types.SchemaDescription, error) {
	if m.introspectErr != nil {
		return types.SchemaDescription{}, m.introspectErr
	}

	return m.schema, nil
}

func (m *mockStore) Seed(_ context.Context, force bool) error {
	m.seedCalls = append(m.seedCalls, force)

	return m.seedErr
}

// captureStdout runs fn while redirecting stdout and returns what was written
func captureStdout(fn func() error) (string, error) {
	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w

	runErr := fn()

	w.Close()

	os.Stdout = oldStdout

	var buf bytes.Buffer

	_, _ = buf.ReadFrom(r)

	return buf.String(), runErr
}
