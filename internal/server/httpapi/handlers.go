package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/dmitrijs2005/swapdiary/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	p, err := s.accounts.Register(c.Request.Context(), services.Registration{
		UserName:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "Registered", "username", req.Username)
	c.JSON(http.StatusCreated, p)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	tokens, err := s.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diaryrpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *Server) profile(c *gin.Context) {
	p, err := s.viewer(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) linkPartner(c *gin.Context) {
	uid, err := userIDFrom(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req linkPartnerRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	p, err := s.accounts.LinkPartner(c.Request.Context(), uid, req.PartnerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) listEntries(c *gin.Context) {
	sc, err := s.scopedViewer(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	entries, err := s.entries.ListForView(c.Request.Context(), *sc.profile, sc.view)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diaryrpc.EntryList{
		EffectiveRole: sc.view.Effective,
		Swapped:       sc.view.Swapped,
		Entries:       entries,
		ServerTime:    sc.at,
	})
}

func (s *Server) createEntry(c *gin.Context) {
	p, err := s.viewer(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req createEntryRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	e, err := s.entries.Create(c.Request.Context(), *p, diary.Draft{
		Title: req.Title,
		Body:  req.Body,
		Mood:  req.Mood,
		Image: req.Image.ToDiary(),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) deleteEntry(c *gin.Context) {
	uid, err := userIDFrom(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.entries.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) gallery(c *gin.Context) {
	sc, err := s.scopedViewer(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	items, err := s.entries.GalleryForView(c.Request.Context(), *sc.profile, sc.view)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diaryrpc.GalleryList{Items: items})
}

func (s *Server) viewer(c *gin.Context) (*diary.Profile, error) {
	uid, err := userIDFrom(c)
	if err != nil {
		return nil, err
	}
	return s.accounts.Profile(c.Request.Context(), uid)
}

// scope is a caller together with the view resolved for this request. The
// same view checks the query and filters the listing.
type scope struct {
	profile *diary.Profile
	view    diary.View
	at      time.Time
}

// scopedViewer loads the caller and checks the legacy coupleId and role
// query parameters against what the server resolves for today. Visibility
// is always decided from the profile, never from the query.
func (s *Server) scopedViewer(c *gin.Context) (*scope, error) {
	var q entriesQuery
	if err := bindQuery(c, &q); err != nil {
		return nil, err
	}
	p, err := s.viewer(c)
	if err != nil {
		return nil, err
	}
	at := s.now()
	view := diary.Resolve(p.Role, at)

	if q.Role != "" {
		role, err := diary.ParseRole(q.Role)
		if err != nil {
			return nil, err
		}
		if role != view.Effective {
			return nil, fmt.Errorf("%w: role %q is not today's role %q", common.ErrValidation, role, view.Effective)
		}
	}
	if q.CoupleID != "" && q.CoupleID != p.ID && q.CoupleID != p.PartnerID {
		return nil, fmt.Errorf("%w: couple %q", common.ErrNotOwner, q.CoupleID)
	}
	return &scope{profile: p, view: view, at: at}, nil
}
