package advisor

import (
	"context"
	"fmt"
	"time"
)

// LocalService answers from the canned tips without any network access.
// It backs offline play and the advisory server when no completion API
// key is configured.
type LocalService struct {
	tips *TipBook
	now  func() time.Time
}

// NewLocalService creates an offline service.
func NewLocalService(seed int64) *LocalService {
	return &LocalService{tips: NewTipBook(seed), now: time.Now}
}

// Advise implements Service.
func (s *LocalService) Advise(ctx context.Context, req Request) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	var text string
	switch req.Action {
	case ActionWelcome:
		text = "Welcome to EcoQuest! I'm Eco, your environmental guide. Collect trees, water, recycling and energy to learn how small actions help the planet."
	case ActionCollectionTip:
		text = s.tips.About(req.GameEvent) + " Keep it up!"
	case ActionScoreMilestone:
		text = fmt.Sprintf("%d points! %s Every action counts!", req.Score, s.tips.Random())
	case ActionRandomTip:
		text = "Did you know? " + s.tips.Random()
	default:
		return Message{}, fmt.Errorf("advisor: unknown action %q", req.Action)
	}

	return Message{
		Text:      text,
		Character: Character,
		Timestamp: s.now().UnixMilli(),
	}, nil
}
