package diaryrpc

import (
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LinkPartnerRequest struct {
	PartnerID string `json:"partnerUid"`
}

// Image carries raw picture bytes; JSON renders Data as base64.
type Image struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

func (i *Image) ToDiary() *diary.Image {
	if i == nil {
		return nil
	}
	return &diary.Image{Name: i.Name, ContentType: i.ContentType, Data: i.Data}
}

func ImageFromDiary(i *diary.Image) *Image {
	if i == nil {
		return nil
	}
	return &Image{Name: i.Name, ContentType: i.ContentType, Data: i.Data}
}

type CreateEntryRequest struct {
	Title string `json:"title"`
	Body  string `json:"full"`
	Mood  string `json:"mood,omitempty"`
	Image *Image `json:"image,omitempty"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

// EntryList is the reply to ListEntries. The resolved view travels with the
// entries so clients render the same swap state the server filtered by.
// ServerTime is the instant the view was resolved for.
type EntryList struct {
	EffectiveRole diary.Role    `json:"effectiveRole"`
	Swapped       bool          `json:"swapped"`
	Entries       []diary.Entry `json:"entries"`
	ServerTime    time.Time     `json:"serverTime"`
}

type GalleryList struct {
	Items []diary.GalleryItem `json:"items"`
}

type Pong struct {
	Status string `json:"status"`
}
