package review

import (
	"time"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/survey"
)

// SeedFromSurvey turns the words a learner missed during a survey into
// fresh review entries, due immediately. Correctly answered words need
// no practice and are skipped.
func SeedFromSurvey(s *survey.State, now time.Time) []Entry {
	var entries []Entry
	for _, ex := range s.History {
		if ex.Answer == nil || ex.Correct {
			continue
		}
		entries = append(entries, NewEntry(ex.Question.Word, ex.Question.BandID, now))
	}
	return entries
}
