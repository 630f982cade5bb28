package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/brandgen/brandgen-go/internal/branding"
	"github.com/brandgen/brandgen-go/internal/ideogram"
	"github.com/brandgen/brandgen-go/internal/metrics"
	"github.com/brandgen/brandgen-go/internal/model"
)

const defaultProviderTimeout = 90 * time.Second

// ImageProvider generates images from a prompt.
type ImageProvider interface {
	Generate(ctx context.Context, req ideogram.ImageRequest) (ideogram.ImageResponse, error)
}

type GenerationOptions struct {
	// Model is sent with every provider call; empty defers to the provider default.
	Model string
	// Timeout bounds each provider call individually.
	Timeout time.Duration
	// Parallel runs the variation slots concurrently instead of one by one.
	Parallel bool
	Logger   *slog.Logger
}

// GenerationService turns a branding form into logo image URLs.
type GenerationService struct {
	provider ImageProvider
	model    string
	timeout  time.Duration
	parallel bool
	validate *validator.Validate
	logger   *slog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(provider ImageProvider, opts GenerationOptions) *GenerationService {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	modelID := opts.Model
	if modelID == "" {
		modelID = ideogram.ModelV2
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &GenerationService{
		provider: provider,
		model:    modelID,
		timeout:  timeout,
		parallel: opts.Parallel,
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate builds one prompt per variation slot and asks the provider for an
// image for each. Any failed provider call aborts the whole request; a
// successful response without an image URL only drops that slot.
func (s *GenerationService) Generate(ctx context.Context, req model.BrandRequest) (model.GenerateResponse, error) {
	if err := s.validateRequest(req); err != nil {
		metrics.Generations.WithLabelValues(metrics.OutcomeValidation).Inc()
		return model.GenerateResponse{}, err
	}

	prompts := branding.BuildPrompts(req)

	slots := make([]string, len(prompts))
	var err error
	if s.parallel {
		err = s.runParallel(ctx, prompts, slots)
	} else {
		err = s.runSequential(ctx, prompts, slots)
	}
	if err != nil {
		metrics.Generations.WithLabelValues(outcomeFor(err)).Inc()
		return model.GenerateResponse{}, err
	}

	urls := make([]string, 0, len(slots))
	for _, u := range slots {
		if u != "" {
			urls = append(urls, u)
		}
	}

	s.logger.Info("brand images generated", "requested", len(prompts), "returned", len(urls))

	if len(urls) == 0 {
		metrics.Generations.WithLabelValues(metrics.OutcomeFailed).Inc()
		return model.GenerateResponse{}, ErrGenerationFailed
	}
	if len(urls) < len(prompts) {
		metrics.Generations.WithLabelValues(metrics.OutcomePartial).Inc()
	} else {
		metrics.Generations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}

	return model.GenerateResponse{ImageURLs: urls}, nil
}

func (s *GenerationService) validateRequest(req model.BrandRequest) error {
	if branding.BuildName(req) == "" || req.Suffix == "" {
		return &ValidationError{Field: "name", Message: "Brand name and suffix are required"}
	}

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return &ValidationError{Message: err.Error()}
		}
		fe := fieldErrs[0]
		switch fe.Field() {
		case "Suffix":
			return &ValidationError{Field: "suffix", Message: "Suffix must be one of Team, Group, Mortgage Team, Mortgage Group"}
		case "Description":
			return &ValidationError{Field: "description", Message: "Description must be at most 200 characters"}
		default:
			return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())}
		}
	}
	return nil
}

func (s *GenerationService) runSequential(ctx context.Context, prompts, slots []string) error {
	for i, prompt := range prompts {
		u, err := s.generateSlot(ctx, i, prompt)
		if err != nil {
			return err
		}
		slots[i] = u
	}
	return nil
}

// runParallel writes each result into its own slot index, so the output
// order matches the sequential path.
func (s *GenerationService) runParallel(ctx context.Context, prompts, slots []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		i, prompt := i, prompt
		g.Go(func() error {
			u, err := s.generateSlot(gctx, i, prompt)
			if err != nil {
				return err
			}
			slots[i] = u
			return nil
		})
	}
	return g.Wait()
}

func (s *GenerationService) generateSlot(ctx context.Context, i int, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("requesting image", "variation", i+1, "prompt", prompt)

	start := time.Now()
	resp, err := s.provider.Generate(callCtx, ideogram.ImageRequest{
		Prompt:            prompt,
		AspectRatio:       ideogram.AspectRatioSquare,
		Model:             s.model,
		MagicPromptOption: ideogram.MagicPromptAuto,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		var apiErr *ideogram.APIError
		switch {
		case errors.As(err, &apiErr):
			observeProvider(metrics.ResultError, elapsed)
			return "", &ProviderError{StatusCode: apiErr.StatusCode, Details: apiErr.Body}
		case ctx.Err() != nil:
			observeProvider(metrics.ResultError, elapsed)
			return "", fmt.Errorf("variation %d: %w", i+1, ctx.Err())
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			observeProvider(metrics.ResultTimeout, elapsed)
			return "", fmt.Errorf("variation %d after %s: %w", i+1, s.timeout, ErrProviderTimeout)
		default:
			observeProvider(metrics.ResultError, elapsed)
			return "", &ProviderError{Details: err.Error()}
		}
	}

	u := resp.FirstURL()
	if u == "" {
		observeProvider(metrics.ResultNoURL, elapsed)
		s.logger.Warn("provider returned no image url", "variation", i+1)
		return "", nil
	}

	observeProvider(metrics.ResultOK, elapsed)
	return u, nil
}

func observeProvider(result string, seconds float64) {
	metrics.ProviderRequests.WithLabelValues(result).Inc()
	metrics.ProviderDuration.WithLabelValues(result).Observe(seconds)
}

func outcomeFor(err error) string {
	var pe *ProviderError
	switch {
	case errors.As(err, &pe):
		return metrics.OutcomeProviderError
	case errors.Is(err, ErrProviderTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	}
	return metrics.OutcomeFailed
}
