package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/mindcare/internal/app/models"
	appRepos "github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

// DefaultCounselors is the roster available for bookings and crisis auto-booking
var DefaultCounselors = []appModels.Counselor{
	{
		ID:             "1",
		Name:           "Dr. Sarah Johnson",
		Title:          "Licensed Clinical Psychologist",
		Specialization: []string{"Anxiety", "Depression", "Academic Stress"},
		Availability:   []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"},
		Rating:         4.9,
		Languages:      []string{"English", "Hindi"},
		SessionTypes:   []string{"individual"},
	},
	{
		ID:             "2",
		Name:           "Dr. Raj Patel",
		Title:          "Counseling Psychologist",
		Specialization: []string{"Trauma", "PTSD", "Crisis Intervention"},
		Availability:   []string{"09:00", "10:00", "13:00", "14:00", "15:00"},
		Rating:         4.8,
		Languages:      []string{"English", "Hindi", "Gujarati"},
		SessionTypes:   []string{"individual"},
	},
	{
		ID:             "3",
		Name:           "Ms. Priya Sharma",
		Title:          "Group Therapy Specialist",
		Specialization: []string{"Group Therapy", "Peer Support", "Social Anxiety"},
		Availability:   []string{"11:00", "14:00", "16:00", "17:00"},
		Rating:         4.7,
		Languages:      []string{"English", "Hindi", "Marathi"},
		SessionTypes:   []string{"group"},
	},
}

// CreateDefaultCounselors stores every roster entry that does not exist yet.
// Existing entries are left alone so edits survive restarts.
func CreateDefaultCounselors(ctx context.Context, counselorRepo *appRepos.CounselorRepository, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default counselor roster...")
	var finalErr error // collect errors without stopping the process

	for i := range DefaultCounselors {
		counselor := DefaultCounselors[i]

		_, err := counselorRepo.GetByID(ctx, counselor.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			lgr.Error().Err(err).Str("counselorID", counselor.ID).Msg("Error checking counselor")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if err := counselorRepo.Save(ctx, &counselor); err != nil {
			lgr.Error().Err(err).Str("counselorID", counselor.ID).Msg("Error creating counselor")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("counselorID", counselor.ID).Str("name", counselor.Name).Msg("Counselor created")
	}

	return finalErr
}
