package level

import (
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
)

// handleEvent applies session side effects: the life pool lives in the
// profile, answers and hints go to the event log. Persistence failures are
// logged and never interrupt play.
func (s *LevelScreen) handleEvent(e session.Event) {
	log := s.log()

	switch e.Kind {
	case session.EventItemAnswered:
		if s.deps.Events == nil {
			return
		}
		err := s.deps.Events.AppendAnswerEvent(s.ctx, store.AnswerEventData{
			SessionID: e.SessionID,
			LevelID:   e.LevelID,
			ItemID:    e.ItemID,
			Option:    e.Option,
			Correct:   e.Correct,
			FirstTry:  e.FirstTry,
			Review:    e.Review,
			Points:    e.Points,
		})
		if err != nil {
			log.Warn().Err(err).Str("item", e.ItemID).Msg("record answer")
		}

	case session.EventLifeLost:
		if s.deps.Profiles == nil {
			return
		}
		lives, err := s.deps.Profiles.LoseLife(s.ctx, e.SessionID)
		if err != nil {
			log.Warn().Err(err).Msg("lose life")
		}
		s.lives = lives

	case session.EventHintRevealed:
		if s.deps.Events == nil {
			return
		}
		var text string
		for _, it := range s.level.Items {
			if it.ID == e.ItemID {
				text = it.Hint
				break
			}
		}
		err := s.deps.Events.AppendHintEvent(s.ctx, store.HintEventData{
			SessionID: e.SessionID,
			LevelID:   e.LevelID,
			ItemID:    e.ItemID,
			HintText:  text,
		})
		if err != nil {
			log.Warn().Err(err).Str("item", e.ItemID).Msg("record hint")
		}

	case session.EventItemMastered:
		log.Debug().Str("item", e.ItemID).Msg("item mastered")

	case session.EventSessionCompleted:
		s.result = e.Result
	}
}

// appendSession records a start or abandon event. Completion is recorded by
// the profile service together with the rewards.
func (s *LevelScreen) appendSession(action string) {
	if s.deps.Events == nil || s.sess == nil {
		return
	}
	v := s.sess.View()
	data := store.SessionEventData{
		SessionID: s.sess.ID(),
		LevelID:   s.level.ID,
		Action:    action,
		Mode:      s.sess.Mode().String(),
		Score:     v.Score,
		Mistakes:  v.Mistakes,
	}
	if err := s.deps.Events.AppendSessionEvent(s.ctx, data); err != nil {
		s.log().Warn().Err(err).Str("action", action).Msg("record session")
	}
}
