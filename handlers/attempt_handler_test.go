package handlers_test

import (
	"net/http"
	"testing"

	"codegaming/models"
	"codegaming/services"
)

// Guests record quiz and challenge attempts through the same endpoints as
// users, naming their session in the body, and the guest progress read
// reflects those writes.
func TestGuestAttemptRecording(t *testing.T) {
	app := newTestApp(t)

	guest, err := app.guests.Create(&services.CreateGuestRequest{Nickname: "drifter", IPAddress: "1.2.3.4"})
	if err != nil {
		t.Fatalf("guest creation failed: %v", err)
	}
	ident := map[string]interface{}{
		"guest_session_id": guest.ID,
		"nickname":         "drifter",
	}

	quizBody := map[string]interface{}{
		"difficulty": "easy",
		"is_correct": true,
	}
	for k, v := range ident {
		quizBody[k] = v
	}
	recorder, _ := app.do(t, http.MethodPost, "/api/attempts/quiz", quizBody, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("guest quiz attempt failed: %d %s", recorder.Code, recorder.Body.String())
	}

	challengeBody := map[string]interface{}{
		"challenge_id": 7,
		"passed":       true,
	}
	for k, v := range ident {
		challengeBody[k] = v
	}
	recorder, _ = app.do(t, http.MethodPost, "/api/attempts/challenge", challengeBody, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("guest challenge attempt failed: %d %s", recorder.Code, recorder.Body.String())
	}

	var quizRows, challengeRows int64
	app.db.Model(&models.GuestQuizAttempt{}).Where("guest_session_id = ?", guest.ID).Count(&quizRows)
	app.db.Model(&models.GuestChallengeAttempt{}).Where("guest_session_id = ?", guest.ID).Count(&challengeRows)
	if quizRows != 1 || challengeRows != 1 {
		t.Fatalf("attempt rows = %d quiz / %d challenge, want 1/1", quizRows, challengeRows)
	}

	recorder, body := app.do(t, http.MethodGet,
		"/api/progress?guest_session_id="+guest.ID+"&nickname=drifter", nil, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("guest progress failed: %d %s", recorder.Code, recorder.Body.String())
	}
	stats, _ := body["user_stats"].(map[string]interface{})
	if stats["quizzes_passed"] != float64(1) || stats["challenges_completed"] != float64(1) {
		t.Errorf("guest stats = %+v, want 1 quiz / 1 challenge", stats)
	}
}

func TestAttemptWithoutIdentity(t *testing.T) {
	app := newTestApp(t)

	recorder, body := app.do(t, http.MethodPost, "/api/attempts/quiz", map[string]interface{}{
		"difficulty": "easy",
		"is_correct": true,
	}, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	if code, _ := body["code"].(string); code != "unauthorized" {
		t.Errorf("error code = %q, want unauthorized", code)
	}
}

func TestAttemptWithUnknownGuest(t *testing.T) {
	app := newTestApp(t)

	recorder, body := app.do(t, http.MethodPost, "/api/attempts/quiz", map[string]interface{}{
		"guest_session_id": "no-such-session",
		"nickname":         "ghost",
		"difficulty":       "easy",
	}, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
	if code, _ := body["code"].(string); code != "not_found" {
		t.Errorf("error code = %q, want not_found", code)
	}
}

// Mini-games stay account-only; a valid guest identity does not help.
func TestMiniGameAttemptRejectsGuests(t *testing.T) {
	app := newTestApp(t)

	guest, err := app.guests.Create(&services.CreateGuestRequest{Nickname: "arcadefan", IPAddress: "1.2.3.4"})
	if err != nil {
		t.Fatalf("guest creation failed: %v", err)
	}

	recorder, _ := app.do(t, http.MethodPost, "/api/attempts/minigame", map[string]interface{}{
		"guest_session_id": guest.ID,
		"nickname":         "arcadefan",
		"mode":             "memory",
		"score":            10,
	}, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
