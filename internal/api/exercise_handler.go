package api

import (
	"context"
	"errors"
	"net/http"

	"vfcarvalho/meu-treino/internal/domain"
	"vfcarvalho/meu-treino/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler serves the authenticated home screen and the exercise
// mutations. Every successful mutation redirects back to GET / so the
// list always re-renders from current store state.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	userService     service.UserService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, userService service.UserService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		userService:     userService,
	}
}

// --- View Models ---

type exerciseView struct {
	ID       string
	Group    domain.Group
	Name     string
	Load     float64
	VideoURL string
	HasVideo bool
	Done     bool
}

type homePageData struct {
	Email     string
	Profile   map[string]any
	Exercises []exerciseView
	Error     string
}

type createExerciseForm struct {
	Group    string  `form:"group"`
	Name     string  `form:"name"`
	Load     float64 `form:"load"`
	VideoURL string  `form:"videoUrl"`
}

// --- Handler Methods ---

// Home renders the authenticated screen: user profile plus the exercise
// list, freshly read from the store.
func (h *ExerciseHandler) Home(c *gin.Context) {
	h.renderHome(c, http.StatusOK, "")
}

// CreateExercise handles the new-exercise form.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		h.renderHome(c, http.StatusInternalServerError, "session lost, please sign in again")
		return
	}

	var form createExerciseForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderHome(c, http.StatusBadRequest, "invalid form submission")
		return
	}

	_, err = h.exerciseService.Create(c.Request.Context(), userID, service.CreateExerciseInput{
		Group:    domain.Group(form.Group),
		Name:     form.Name,
		Load:     form.Load,
		VideoURL: form.VideoURL,
	})
	if err != nil {
		h.renderHome(c, statusForMutation(err), mutationErrorMessage(err))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// CompleteExercise marks an exercise done. Done never goes back to false.
func (h *ExerciseHandler) CompleteExercise(c *gin.Context) {
	h.mutate(c, h.exerciseService.Complete)
}

// DeleteExercise removes an exercise (and its uploaded video, if any).
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	h.mutate(c, h.exerciseService.Delete)
}

// mutate runs a complete/delete operation against the :id parameter and
// either redirects to a fresh home render or re-renders with the error.
func (h *ExerciseHandler) mutate(c *gin.Context, op func(ctx context.Context, userID string, id primitive.ObjectID) error) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.renderHome(c, http.StatusBadRequest, "invalid exercise id")
		return
	}

	if err := op(c.Request.Context(), userID, id); err != nil {
		h.renderHome(c, statusForMutation(err), mutationErrorMessage(err))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *ExerciseHandler) renderHome(c *gin.Context, status int, errMsg string) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	ctx := c.Request.Context()

	profile, err := h.userService.Profile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to load user document")
		profile = map[string]any{}
		if errMsg == "" {
			errMsg = "could not load your profile"
		}
	}

	exercises, err := h.exerciseService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to list exercises")
		exercises = nil
		if errMsg == "" {
			errMsg = "could not load your exercises"
		}
	}

	views := make([]exerciseView, 0, len(exercises))
	for i := range exercises {
		ex := &exercises[i]
		url := h.exerciseService.ResolveVideoURL(ctx, ex)
		views = append(views, exerciseView{
			ID:       ex.ID.Hex(),
			Group:    ex.Group,
			Name:     ex.Name,
			Load:     ex.Load,
			VideoURL: url,
			HasVideo: url != "",
			Done:     ex.Done,
		})
	}

	c.HTML(status, "home", homePageData{
		Email:     getUserEmailFromContext(c),
		Profile:   profile,
		Exercises: views,
		Error:     errMsg,
	})
}

func statusForMutation(err error) int {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrExerciseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func mutationErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrExerciseNotFound):
		return err.Error()
	default:
		log.Error().Err(err).Msg("exercise mutation failed")
		return "the workout store rejected the operation, please try again"
	}
}
