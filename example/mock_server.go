package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// mockTask tracks one submitted task and when it finishes.
type mockTask struct {
	id       string
	doneAt   time.Time
	checked  int
	finished bool
}

// StartMockTaskServer runs a mock async-task API:
//
//	POST /convert      → 202 {"id": "task-N"}
//	GET  /tasks/{id}   → {"status": "pending"} until the task's completion
//	                     time, then {"status": "completed", "result": ...}
//	DELETE /tasks/{id} → cancels the task (used by the abort cleanup hook)
//
// Each task completes 2-5 seconds after submission. Call this in a goroutine
// before performing calls against it.
func StartMockTaskServer(addr string) {
	var (
		tasks  = make(map[string]*mockTask)
		nextID int
		mu     sync.Mutex
	)

	mux := http.NewServeMux()

	mux.HandleFunc("/convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}

		mu.Lock()
		nextID++
		task := &mockTask{
			id:     fmt.Sprintf("task-%d", nextID),
			doneAt: time.Now().Add(time.Duration(2+rand.Intn(4)) * time.Second),
		}
		tasks[task.id] = task
		mu.Unlock()

		slog.Info("task submitted", "id", task.id)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": task.id})
	})

	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/tasks/")

		mu.Lock()
		task, ok := tasks[id]
		if !ok {
			mu.Unlock()
			http.Error(w, "no such task", http.StatusNotFound)
			return
		}

		if r.Method == http.MethodDelete {
			delete(tasks, id)
			mu.Unlock()
			slog.Info("task cancelled", "id", id)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		task.checked++
		status := "pending"
		if time.Now().After(task.doneAt) {
			task.finished = true
			status = "completed"
		}
		checked := task.checked
		mu.Unlock()

		slog.Info("status check", "id", id, "status", status, "checks", checked)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"id": id, "status": status}
		if status == "completed" {
			resp["result"] = "s3://converted/" + id + ".pdf"
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
