package services

import (
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/server/models"
)

func entryToModel(e diary.Entry, imageKey string) *models.Entry {
	return &models.Entry{
		ID:         e.ID,
		AuthorID:   e.AuthorID,
		AuthorRole: string(e.AuthorRole),
		Title:      e.Title,
		Body:       e.Body,
		Preview:    e.Preview,
		Mood:       e.Mood,
		ImageKey:   imageKey,
		DateLabel:  e.Date,
		DayLabel:   e.Weekday,
		MonthLabel: e.Month,
		TimeLabel:  e.Time,
		CreatedAt:  e.CreatedAt,
	}
}

// entryFromModel maps a row back; imageRef is the resolved download URL.
func entryFromModel(m *models.Entry, imageRef string) diary.Entry {
	return diary.Entry{
		ID:         m.ID,
		AuthorID:   m.AuthorID,
		AuthorRole: diary.Role(m.AuthorRole),
		Title:      m.Title,
		Body:       m.Body,
		Preview:    m.Preview,
		Mood:       m.Mood,
		ImageRef:   imageRef,
		Date:       m.DateLabel,
		Weekday:    m.DayLabel,
		Month:      m.MonthLabel,
		Time:       m.TimeLabel,
		CreatedAt:  m.CreatedAt,
	}
}

func profileFromUser(u *models.User, avatarRef string) *diary.Profile {
	return &diary.Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarRef:   avatarRef,
		Role:        diary.Role(u.Role),
		PartnerID:   u.PartnerID,
	}
}
