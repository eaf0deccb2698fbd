package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

// ContentHandler serves age-tuned learning challenges to the child surface.
type ContentHandler struct {
	contentSvc ContentServiceInterface
	stateSvc   StateServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface, stateSvc StateServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
		stateSvc:   stateSvc,
	}
}

// @Summary Get Challenges
// @Description Returns a generated challenge set for the given kind, sized by the count query param
// @Tags content
// @Produce json
// @Param kind path string true "Challenge kind" Enums(general, math_quiz, reading, spelling, math)
// @Param count query int false "Item count"
// @Success 200 {object} shared.Response{data=dto.ChallengeSetResponse}
// @Router /api/v1/child/challenges/{kind} [get]
func (h *ContentHandler) GetChallenges(c *fiber.Ctx) error {
	kind := model.ChallengeKind(c.Params("kind"))
	if !kind.Valid() {
		return shared.NewBadRequestError(nil, "Unknown challenge kind")
	}

	state, err := h.stateSvc.Read()
	if err != nil {
		return err
	}

	count := c.QueryInt("count", 5)
	if count < 1 || count > 50 {
		return shared.NewBadRequestError(nil, "Count must be between 1 and 50")
	}

	resp := h.contentSvc.Generate(kind, state.ChildAge, count)
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
