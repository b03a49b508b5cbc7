package session

import (
	"context"
	"log/slog"
	"time"
)

// keepAlive publishes presence for the character at a fixed interval until
// ctx ends.
func (s *Session) keepAlive(ctx context.Context, characterId string) error {
	if s.keepalive <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.gw.Presence(ctx, characterId); err != nil {
				slog.WarnContext(ctx, "publishing presence", "error", err)
			}
		}
	}
}
