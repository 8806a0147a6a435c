package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

// stubClient records calls and plays back a canned completion.
type stubClient struct {
	calls      int
	lastPrompt string
	lastTemp   float64
	output     string
	err        error
}

func (c *stubClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	c.calls++
	c.lastPrompt = prompt
	c.lastTemp = temperature
	if c.err != nil {
		return "", c.err
	}
	return c.output, nil
}

func newParaphraseFixture(client *stubClient) ParaphraseService {
	return NewParaphraseService(client, validator.New(0, 1), utils.NewDevelopmentLogger(), 5*time.Second)
}

func TestParaphraseService_Paraphrase(t *testing.T) {
	client := &stubClient{output: "言い換えた文章"}
	svc := newParaphraseFixture(client)

	resp, err := svc.Paraphrase(context.Background(), &models.ParaphraseRequest{
		Text:       "機械学習とは何かを説明せよ",
		Creativity: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "機械学習とは何かを説明せよ", resp.Original)
	assert.Equal(t, "言い換えた文章", resp.Paraphrased)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 0.7, client.lastTemp)
	assert.Contains(t, client.lastPrompt, "機械学習とは何かを説明せよ")
}

func TestParaphraseService_EmptyTextRejectedBeforeCall(t *testing.T) {
	client := &stubClient{output: "unused"}
	svc := newParaphraseFixture(client)

	_, err := svc.Paraphrase(context.Background(), &models.ParaphraseRequest{Text: "   "})

	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 0, client.calls, "backend must not be called for invalid input")
}

func TestParaphraseService_CreativityOutOfBounds(t *testing.T) {
	client := &stubClient{output: "unused"}
	svc := newParaphraseFixture(client)

	for _, creativity := range []float64{-0.1, 1.1} {
		_, err := svc.Paraphrase(context.Background(), &models.ParaphraseRequest{
			Text:       "なにか",
			Creativity: creativity,
		})
		assert.True(t, IsInvalidArgument(err), "creativity=%v", creativity)
	}
	assert.Equal(t, 0, client.calls)
}

func TestParaphraseService_BackendFailure(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	svc := newParaphraseFixture(client)

	_, err := svc.Paraphrase(context.Background(), &models.ParaphraseRequest{
		Text:       "なにか",
		Creativity: 0.5,
	})

	assert.True(t, IsUpstreamUnavailable(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestParaphraseService_Explain(t *testing.T) {
	client := &stubClient{output: "正解の理由はこうです"}
	svc := newParaphraseFixture(client)

	resp, err := svc.Explain(context.Background(), &models.ExplainRequest{
		Question: "過学習とは何か",
		Answer:   "訓練データへの過剰適合",
		Context:  "シラバス第3章",
	})
	require.NoError(t, err)

	assert.Equal(t, "過学習とは何か", resp.Question)
	assert.Equal(t, "正解の理由はこうです", resp.Explanation)
	assert.Equal(t, explainTemperature, client.lastTemp)
	assert.True(t, strings.Contains(client.lastPrompt, "訓練データへの過剰適合"))
	assert.True(t, strings.Contains(client.lastPrompt, "シラバス第3章"))
}

func TestParaphraseService_ExplainMissingFields(t *testing.T) {
	client := &stubClient{output: "unused"}
	svc := newParaphraseFixture(client)

	_, err := svc.Explain(context.Background(), &models.ExplainRequest{Question: "問題だけ"})

	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 0, client.calls)
}
