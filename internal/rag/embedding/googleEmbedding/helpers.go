package googleEmbedding

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// classify tags quota errors as ErrRateLimited. Nothing is retried.
func classify(err error, log *logger_i.Logger) error {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		log.Error("rate limit hit", "error", err)
		return fmt.Errorf("%w: %v", commonModels.ErrRateLimited, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		log.Error("rate limit hit", "error", err)
		return fmt.Errorf("%w: %v", commonModels.ErrRateLimited, err)
	}
	return fmt.Errorf("google embedding: %w", err)
}
