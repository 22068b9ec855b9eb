package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/service"
	"github.com/gin-gonic/gin"
)

type moodRequest struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

func (a *API) GetMoods(c *gin.Context) {
	moods, err := a.moods.List()
	if err != nil {
		log.Printf("[mood] list: %v", err)
		respondError(c, http.StatusInternalServerError, msgMoodFailed)
		return
	}

	items := make([]gin.H, 0, len(moods))
	for _, mood := range moods {
		items = append(items, moodToPayload(mood))
	}
	c.JSON(http.StatusOK, gin.H{"moods": items})
}

func (a *API) CreateMood(c *gin.Context) {
	var req moodRequest
	if !bindJSON(c, &req) {
		return
	}

	mood, err := a.moods.Create(req.Emoji, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrMoodEmojiRequired) {
			respondError(c, http.StatusBadRequest, msgMoodEmojiRequired)
			return
		}
		log.Printf("[mood] create: %v", err)
		respondError(c, http.StatusInternalServerError, msgMoodFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mood": moodToPayload(*mood)})
}

func moodToPayload(mood db.Mood) gin.H {
	return gin.H{
		"id":    mood.ID,
		"emoji": mood.Emoji,
		"name":  mood.Name,
	}
}
