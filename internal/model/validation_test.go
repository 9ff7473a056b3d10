package model

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestIsValidRating(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := IsValidRating(c.rating); got != c.want {
			t.Errorf("IsValidRating(%d) = %v, want %v", c.rating, got, c.want)
		}
	}
}

func TestItineraryVisibility_IsValid(t *testing.T) {
	t.Parallel()
	if !VisibilityPrivate.IsValid() || !VisibilityPublic.IsValid() {
		t.Error("known visibility values should be valid")
	}
	if ItineraryVisibility("friends").IsValid() {
		t.Error("unknown visibility value should be invalid")
	}
}

func TestUserRole_IsValid(t *testing.T) {
	t.Parallel()
	if !UserRoleUser.IsValid() || !UserRoleAdmin.IsValid() {
		t.Error("known roles should be valid")
	}
	if UserRole("moderator").IsValid() {
		t.Error("unknown role should be invalid")
	}
}

func TestUser_IsAdmin(t *testing.T) {
	t.Parallel()
	admin := &User{Role: UserRoleAdmin}
	if !admin.IsAdmin() {
		t.Error("expected IsAdmin() to return true")
	}
	user := &User{Role: UserRoleUser}
	if user.IsAdmin() {
		t.Error("expected IsAdmin() to return false")
	}
}

func TestUser_HashNeverSerialized(t *testing.T) {
	t.Parallel()
	hash := "$2a$12$secret"
	u := &User{ID: "user:1", Username: "made", Email: "made@example.com", Hash: &hash}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if _, ok := out["hash"]; ok {
		t.Error("password hash must not appear in JSON output")
	}
}

func TestProblemDetails_WriteJSON(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	NewUnsupportedMediaTypeError("detected text/plain; only images are accepted").WriteJSON(rr)

	if rr.Code != 415 {
		t.Errorf("expected status 415, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json content type, got %s", ct)
	}

	var pd ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &pd); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if pd.Status != 415 || pd.Title != "Unsupported Media Type" {
		t.Errorf("unexpected problem details: %+v", pd)
	}
}
