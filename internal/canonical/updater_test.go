package canonical

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lijuuu/ChallengeLegacySyncService/internal/api"
)

func TestWriteBack(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("body did not decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	updater := NewUpdater(api.NewClient(""), server.URL)
	modifiedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := updater.WriteBack(context.Background(), "challenge-1", 9001, 333, modifiedAt, 777); err != nil {
		t.Fatalf("WriteBack failed: %v", err)
	}

	if gotMethod != http.MethodPatch || gotPath != "/challenge-1" {
		t.Errorf("expected PATCH /challenge-1, got %s %s", gotMethod, gotPath)
	}
	if gotBody["legacyId"] != float64(777) {
		t.Errorf("expected legacyId 777, got %v", gotBody["legacyId"])
	}
	legacy, ok := gotBody["legacy"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested legacy object, got %v", gotBody["legacy"])
	}
	if legacy["directProjectId"] != float64(9001) || legacy["forumId"] != float64(333) {
		t.Errorf("unexpected legacy sub-record: %v", legacy)
	}
}

func TestGetChallengeTypeID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/challenge-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":"challenge-1","typeId":"task-type-id"}`)
	}))
	defer server.Close()

	updater := NewUpdater(api.NewClient(""), server.URL)
	typeID, err := updater.GetChallengeTypeID(context.Background(), "challenge-1")
	if err != nil {
		t.Fatalf("GetChallengeTypeID failed: %v", err)
	}
	if typeID != "task-type-id" {
		t.Errorf("expected task-type-id, got %s", typeID)
	}
}
