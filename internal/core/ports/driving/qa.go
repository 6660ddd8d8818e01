package driving

import (
	"context"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

// Answer is the result of a question over indexed videos.
type Answer struct {
	// Text is the model's answer.
	Text string

	// Sources are the chunks the answer was grounded on, nearest first.
	Sources []domain.RetrievedChunk

	// History is the updated conversation, including this exchange.
	// Chat state is owned by the caller and passed back in on the next
	// question.
	History []driven.ChatMessage
}

// QAService answers free-form questions about analysed videos by
// retrieving relevant chunks and feeding them to the LLM.
type QAService interface {
	// Ask answers a question. history carries prior turns (may be nil);
	// videoIDs optionally restricts retrieval to specific videos.
	Ask(ctx context.Context, question string, history []driven.ChatMessage, videoIDs []string) (*Answer, error)
}
