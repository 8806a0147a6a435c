package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tokiwa-akira/gkentei/internal/llm"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

// ParaphraseService is the gateway in front of the external text-generation
// capability: it validates input, shapes the prompt, enforces the call
// timeout and measures latency. It never holds a lock across the call.
type ParaphraseService interface {
	Paraphrase(ctx context.Context, req *models.ParaphraseRequest) (*models.ParaphraseResponse, error)
	Explain(ctx context.Context, req *models.ExplainRequest) (*models.ExplainResponse, error)
}

type paraphraseService struct {
	client    llm.Client
	validator *validator.Validator
	logger    utils.Logger
	timeout   time.Duration
}

func NewParaphraseService(
	client llm.Client,
	v *validator.Validator,
	logger utils.Logger,
	timeout time.Duration,
) ParaphraseService {
	return &paraphraseService{
		client:    client,
		validator: v,
		logger:    logger,
		timeout:   timeout,
	}
}

func (s *paraphraseService) Paraphrase(ctx context.Context, req *models.ParaphraseRequest) (*models.ParaphraseResponse, error) {
	if err := s.validator.ValidateParaphrase(req); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"次の問題文を、意味を変えずに別の表現で言い換えてください。言い換えた文のみを出力してください。\n\n%s",
		req.Text,
	)

	start := time.Now()
	output, err := s.complete(ctx, prompt, req.Creativity)
	if err != nil {
		return nil, err
	}

	return &models.ParaphraseResponse{
		Original:         req.Text,
		Paraphrased:      output,
		ProcessingTimeMs: elapsedMs(start),
	}, nil
}

func (s *paraphraseService) Explain(ctx context.Context, req *models.ExplainRequest) (*models.ExplainResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"次の問題について、正解が「%s」である理由を初学者向けに解説してください。\n\n問題: %s",
		req.Answer, req.Question,
	)
	if req.Context != "" {
		prompt += "\n\n補足: " + req.Context
	}

	start := time.Now()
	output, err := s.complete(ctx, prompt, explainTemperature)
	if err != nil {
		return nil, err
	}

	return &models.ExplainResponse{
		Question:         req.Question,
		Explanation:      output,
		ProcessingTimeMs: elapsedMs(start),
	}, nil
}

// explainTemperature keeps generated explanations close to the source
// material rather than creative.
const explainTemperature = 0.3

// complete runs one bounded call against the backend. Any failure,
// including hitting the deadline, surfaces as ErrUpstreamUnavailable so
// callers can tell it apart from their own bad input.
func (s *paraphraseService) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.client.Complete(callCtx, prompt, temperature)
	if err != nil {
		s.logger.LogError(err, "text generation call failed")
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return output, nil
}
