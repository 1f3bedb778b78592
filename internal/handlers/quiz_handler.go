package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/middleware"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/services"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
)

const msgTeamLocked = "Team is locked"

type submitAnswerRequest struct {
	TeamName   string `json:"team_name"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type submitAnswerResponse struct {
	Message string                    `json:"message"`
	Status  services.SubmissionStatus `json:"status"`
}

// checkUnlocked rejects requests for locked teams. Unknown teams are
// reported as not found.
func (h *HandlerManager) checkUnlocked(r *http.Request, teamName string) error {
	locked, err := h.Locks.IsLocked(r.Context(), teamName)
	if err != nil {
		return err
	}
	if locked {
		return errors.New(errors.ErrCodeTeamLocked, msgTeamLocked)
	}
	return nil
}

// checkTeamToken rejects requests whose team token names a different team.
// It is a no-op unless TEAM_AUTH is enabled.
func (h *HandlerManager) checkTeamToken(r *http.Request, teamName string) error {
	if !h.Config.TeamAuth {
		return nil
	}
	tokenTeam, ok := middleware.TeamFromContext(r.Context())
	if !ok || tokenTeam != security.SanitizeText(teamName) {
		return errors.New(errors.ErrCodeForbidden, "Token does not belong to this team")
	}
	return nil
}

// SubmitAnswer handles POST /submit-answer
func (h *HandlerManager) SubmitAnswer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req submitAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.TeamName == "" || req.QuestionID == "" {
		writeError(w, r, errors.New(errors.ErrCodeValidation, "team_name and question_id are required"))
		return
	}

	if err := h.checkTeamToken(r, req.TeamName); err != nil {
		writeError(w, r, err)
		return
	}

	if h.Limiter != nil {
		team := security.SanitizeText(req.TeamName)
		allowed := h.Limiter.CheckTeamLimit(team)
		middleware.SetRemaining(w, h.Limiter.GetTeamRemaining(team))
		if !allowed {
			writeError(w, r, errors.New(errors.ErrCodeRateLimitExceeded, "Too many submissions, slow down"))
			return
		}
	}

	if err := h.checkUnlocked(r, req.TeamName); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Answers.SubmitAnswer(r.Context(), req.TeamName, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	switch {
	case res.Status == services.StatusIncorrect:
		status = http.StatusBadRequest
	case res.Status == services.StatusCorrect && res.Created:
		status = http.StatusCreated
	}

	writeJSON(w, status, submitAnswerResponse{Message: res.Message, Status: res.Status})
}

// GetQuestions handles GET /get-questions
func (h *HandlerManager) GetQuestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	questions, err := h.Questions.ListQuestions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// UnsolvedQuestions handles POST /unsolved-questions
func (h *HandlerManager) UnsolvedQuestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req teamNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.checkTeamToken(r, req.TeamName); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.checkUnlocked(r, req.TeamName); err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.Questions.UnsolvedQuestions(r.Context(), req.TeamName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type questionResponse struct {
	QuestionID          string `json:"question_id"`
	QuestionText        string `json:"question_text"`
	QuestionDescription string `json:"question_description"`
	Answer              string `json:"answer"`
}

// AddQuestion handles POST /add-question
func (h *HandlerManager) AddQuestion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input services.AddQuestionInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.Questions.AddQuestion(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, questionResponse{
		QuestionID:          q.ID,
		QuestionText:        q.Label,
		QuestionDescription: q.Description,
		Answer:              q.Answer,
	})
}

const maxWorkbookBytes = 10 << 20

// ImportQuestions handles POST /import-questions, a multipart upload of an
// .xlsx workbook in the "file" field.
func (h *HandlerManager) ImportQuestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, errors.Wrap(err, errors.ErrCodeValidation, "A workbook is required in the \"file\" field"))
		return
	}
	defer file.Close()

	res, err := h.Questions.ImportQuestions(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rejected := make([]string, 0, len(res.Errors))
	for _, rowErr := range res.Errors {
		rejected = append(rejected, rowErr.Error())
	}
	writeJSON(w, http.StatusOK, importResponse{Added: res.Added, Skipped: res.Skipped, Rejected: rejected})
}

type importResponse struct {
	Added    int      `json:"added"`
	Skipped  int      `json:"skipped"`
	Rejected []string `json:"rejected"`
}
