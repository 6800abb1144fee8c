package llm

import "context"

// MockClient is a test double for Client. Set Response or Err to script its
// behavior; Prompts records every prompt received.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Complete(_ context.Context, _, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockClient) Model() string    { return "mock" }
func (m *MockClient) Provider() string { return "mock" }
