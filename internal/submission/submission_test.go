package submission

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/errors"
	"newsdesk/internal/notify"
	"newsdesk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Health(ctx context.Context) (*prediction.Health, error) {
	args := m.Called(ctx)
	health, _ := args.Get(0).(*prediction.Health)
	return health, args.Error(1)
}

func (m *MockClassifier) ModelInfo(ctx context.Context) (*prediction.ModelInfo, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*prediction.ModelInfo)
	return info, args.Error(1)
}

func (m *MockClassifier) History(ctx context.Context) ([]prediction.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]prediction.Record)
	return records, args.Error(1)
}

func (m *MockClassifier) Predict(ctx context.Context, req prediction.PredictRequest) (*prediction.PredictResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*prediction.PredictResponse)
	return resp, args.Error(1)
}

func fakeResponse(title string) *prediction.PredictResponse {
	v := prediction.Analyze(0.92)
	return &prediction.PredictResponse{
		Success:    true,
		Prediction: &v,
		Preview:    &prediction.Preview{Title: title, Text: ""},
	}
}

func setup(t *testing.T) (*MockClassifier, *notify.Notifier, *Controller) {
	t.Helper()
	client := new(MockClassifier)
	notifier := notify.NewNotifier(time.Minute, nil, internal.NewNopLogger())
	t.Cleanup(notifier.Close)
	return client, notifier, NewController(client, notifier, internal.NewNopLogger())
}

func TestSubmitBlankInputNeverCallsBackend(t *testing.T) {
	client, notifier, c := setup(t)
	state := session.NewAppState()

	for _, req := range []prediction.PredictRequest{
		{},
		{Title: "   ", Text: "\n\t"},
		{Title: "", Text: "  "},
	} {
		card, err := c.Submit(context.Background(), state, "s1", req)
		assert.Nil(t, card)
		assert.True(t, errors.Is(err, errors.CodeValidationError))
	}

	client.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "History", mock.Anything)
	notes := notifier.Active("s1")
	require.Len(t, notes, 3)
	for _, n := range notes {
		assert.Equal(t, notify.SeverityWarning, n.Severity)
		assert.Equal(t, MsgBlankInput, n.Message)
	}
	assert.False(t, state.IsAnalyzing())
}

func TestSubmitSuccessReloadsHistoryOnce(t *testing.T) {
	client, notifier, c := setup(t)
	state := session.NewAppState()
	req := prediction.PredictRequest{Title: "BREAKING: Aliens Found on Mars!"}

	history := []prediction.Record{{Title: req.Title, Result: prediction.ResultFake, Confidence: 0.92}}
	client.On("Predict", mock.Anything, req).Return(fakeResponse(req.Title), nil).Once()
	client.On("History", mock.Anything).Return(history, nil).Once()

	card, err := c.Submit(context.Background(), state, "s1", req)
	require.NoError(t, err)
	require.NotNil(t, card)

	assert.Equal(t, "FAKE NEWS", card.Label)
	assert.Equal(t, "92.0%", card.ConfidencePercentage)
	assert.InDelta(t, 92.0, card.ConfidenceWidth, 1e-9)
	assert.Equal(t, prediction.CategoryFake, card.Category)
	assert.Equal(t, "#dc3545", card.Color)
	assert.Equal(t, req.Title, card.PreviewTitle)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "History", 1)

	cached, ok := state.History()
	require.True(t, ok)
	assert.Equal(t, history, cached)
	assert.Equal(t, "FAKE NEWS", c.LastCard(state).Label)
	assert.False(t, state.IsAnalyzing())

	notes := notifier.Active("s1")
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeveritySuccess, notes[0].Severity)
	assert.Equal(t, MsgComplete, notes[0].Message)
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	client, notifier, c := setup(t)
	state := session.NewAppState()
	req := prediction.PredictRequest{Title: "first"}

	entered := make(chan struct{})
	release := make(chan struct{})
	client.On("Predict", mock.Anything, req).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(fakeResponse("first"), nil).Once()
	client.On("History", mock.Anything).Return([]prediction.Record{}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), state, "s1", req)
		done <- err
	}()
	<-entered
	assert.True(t, state.IsAnalyzing())

	_, err := c.Submit(context.Background(), state, "s1", prediction.PredictRequest{Title: "second"})
	assert.True(t, errors.Is(err, errors.CodeBusy))

	warnings := notifier.Active("s1")
	require.Len(t, warnings, 1)
	assert.Equal(t, notify.SeverityWarning, warnings[0].Severity)
	assert.Equal(t, MsgBusy, warnings[0].Message)

	close(release)
	require.NoError(t, <-done)
	client.AssertNumberOfCalls(t, "Predict", 1)
	assert.False(t, state.IsAnalyzing())
}

func TestSubmitFailureKeepsLastResult(t *testing.T) {
	client, notifier, c := setup(t)
	state := session.NewAppState()
	state.SetLastResult(fakeResponse("earlier"))

	client.On("Predict", mock.Anything, mock.Anything).
		Return(nil, errors.ApplicationError("Model not loaded. Please train the model first.")).Once()
	client.On("Predict", mock.Anything, mock.Anything).
		Return(nil, errors.NetworkError(fmt.Errorf("dial tcp: connection refused"))).Once()

	_, err := c.Submit(context.Background(), state, "s1", prediction.PredictRequest{Text: "body"})
	require.Error(t, err)
	_, err = c.Submit(context.Background(), state, "s1", prediction.PredictRequest{Text: "body"})
	require.Error(t, err)

	assert.Equal(t, "earlier", c.LastCard(state).PreviewTitle)
	assert.False(t, state.IsAnalyzing())
	client.AssertNotCalled(t, "History", mock.Anything)

	notes := notifier.Active("s1")
	require.Len(t, notes, 2)
	assert.Equal(t, "Model not loaded. Please train the model first.", notes[0].Message)
	assert.True(t, strings.HasPrefix(notes[1].Message, "Network error"))
	for _, n := range notes {
		assert.Equal(t, notify.SeverityError, n.Severity)
	}
}

func TestReloadHistoryFailureKeepsCache(t *testing.T) {
	client, _, c := setup(t)
	state := session.NewAppState()
	cached := []prediction.Record{{Title: "kept"}}
	state.SetHistory(cached)

	client.On("History", mock.Anything).Return(nil, errors.NetworkError(fmt.Errorf("timeout")))

	records, err := c.ReloadHistory(context.Background(), state, "s1")
	require.Error(t, err)
	assert.Equal(t, cached, records)
}

func TestBuildHistoryTable(t *testing.T) {
	at := prediction.NewTimestamp(time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))
	records := make([]prediction.Record, 12)
	for i := range records {
		records[i] = prediction.Record{Timestamp: at, Title: fmt.Sprintf("item %d", i), Result: prediction.ResultReal, Confidence: 0.1}
	}

	empty := BuildHistoryTable(nil, 5, time.UTC)
	assert.True(t, empty.Placeholder)
	assert.Empty(t, empty.Rows)

	home := BuildHistoryTable(records, 5, time.UTC)
	require.Len(t, home.Rows, 5)
	assert.False(t, home.Placeholder)
	assert.Equal(t, 12, home.Total)
	for i, row := range home.Rows {
		assert.Equal(t, fmt.Sprintf("item %d", i), row.Title)
	}
	assert.Equal(t, "Oct 15, 09:30", home.Rows[0].Time)
	assert.Equal(t, "#28a745", home.Rows[0].Color)
	assert.Equal(t, "10.0%", home.Rows[0].ConfidencePercentage)

	dashboard := BuildHistoryTable(records, 10, time.UTC)
	assert.Len(t, dashboard.Rows, 10)

	untitled := BuildHistoryTable([]prediction.Record{{Result: "SUSPICIOUS"}}, 5, time.UTC)
	assert.Equal(t, "Untitled", untitled.Rows[0].Title)
}
