package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nursequest/nursequest/internal/app/clinical"
	"github.com/nursequest/nursequest/internal/domain"
)

// ─── Economy API (/api/economy/*) ───────────────────────────────────────────
// Each handler turns one UI intent into one engine call.

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvariant, err)
	}
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// --- reading / login ---

type readRequest struct {
	ArticleID string `json:"articleId"`
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	var req readRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.engine.RecordRead(req.ArticleID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	reward, err := s.engine.ClaimDailyLogin()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// --- quiz ---

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Selected   int    `json:"selected"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	correct, err := s.engine.AnswerQuestion(req.QuestionID, req.Selected)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"correct": correct})
}

func (s *Server) handleQuizStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.AdaptiveStats()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleClearQuizStats(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearAdaptiveStats(); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

type finishRequest struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

func (s *Server) handleFinishQuiz(mode domain.QuizMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req finishRequest
		if err := decode(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		out, err := s.engine.FinishQuiz(mode, req.Correct, req.Total)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type pickRequest struct {
	N          int                       `json:"n"`
	Difficulty map[domain.Difficulty]int `json:"difficulty,omitempty"`
	Exclude    []string                  `json:"exclude,omitempty"`
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	exclude := make(map[string]bool, len(req.Exclude))
	for _, id := range req.Exclude {
		exclude[id] = true
	}

	var (
		qs  []domain.Question
		err error
	)
	if len(req.Difficulty) > 0 {
		qs, err = s.engine.PickQuestionsByDifficulty(req.Difficulty, exclude)
	} else {
		qs, err = s.engine.PickQuestions(req.N, exclude)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

// --- missions / achievements ---

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.Missions()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"missions": list})
}

type claimRequest struct {
	Tier int `json:"tier"`
}

func (s *Server) handleClaimMission(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	reward, err := s.engine.ClaimMission(chi.URLParam(r, "id"), req.Tier)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.Achievements()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": list})
}

func (s *Server) handleClaimAchievement(w http.ResponseWriter, r *http.Request) {
	reward, err := s.engine.ClaimAchievement(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// --- packs ---

func (s *Server) handleOpenPack(w http.ResponseWriter, r *http.Request) {
	opening, err := s.engine.OpenPack()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opening)
}

func (s *Server) handleBuyPack(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.engine.BuyPack()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleRecycle(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.RecycleDuplicates()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- clinical tools ---

func (s *Server) handleNEWS2(w http.ResponseWriter, r *http.Request) {
	var v clinical.Vitals
	if err := decode(r, &v); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.engine.ScoreNEWS2(v)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGCS(w http.ResponseWriter, r *http.Request) {
	var in clinical.GCSInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.engine.ScoreGCS(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCompat serves GET /tools/compat?a=..&b=..; without both drugs it
// lists the known drugs and costs nothing.
func (s *Server) handleCompat(w http.ResponseWriter, r *http.Request) {
	a, b := strings.TrimSpace(r.URL.Query().Get("a")), strings.TrimSpace(r.URL.Query().Get("b"))
	if a == "" || b == "" {
		writeJSON(w, http.StatusOK, map[string]any{"drugs": s.engine.Drugs()})
		return
	}
	res, err := s.engine.CheckCompat(a, b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- backup ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	blob, err := s.engine.Export()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="nursequest-backup.json"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, blob)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.engine.Import(string(body)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
