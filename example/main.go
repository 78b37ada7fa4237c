package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pollfetch"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockTaskServer(":9999")
	time.Sleep(100 * time.Millisecond)

	client, err := pollfetch.New()
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	fmt.Println("  pollfetch demo: submitting a conversion task and polling it")
	fmt.Println("  (Ctrl+C cancels the task via the abort cleanup hook)")
	fmt.Println()

	reply, err := client.Do(ctx, pollfetch.Request{
		URL:    "http://localhost:9999/convert",
		Method: http.MethodPost,
		Polling: &pollfetch.PollConfig{
			Interval: time.Second,

			// discover the task id from the initial reply and pass it forward
			OnInit: func(ctx context.Context, pc *pollfetch.Context) (*pollfetch.Outcome, error) {
				var task struct {
					ID string `json:"id"`
				}
				if err := pc.InitReply.JSON(&task); err != nil {
					return nil, err
				}
				pc.Set("status_url", "http://localhost:9999/tasks/"+task.ID)
				pc.Set("task_id", task.ID)
				return nil, nil
			},

			// fetch the status endpoint each attempt until it reports done
			OnPoll: client.CheckFunc(func(pc *pollfetch.Context) (string, error) {
				url, _ := pc.Value("status_url")
				return url.(string), nil
			}, pollfetch.JSONFieldEquals("status", "completed")),

			// cancel the server-side task if the caller gives up
			OnAbort: func(ctx context.Context, pc *pollfetch.Context) error {
				url, _ := pc.Value("status_url")
				req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url.(string), nil)
				if err != nil {
					return err
				}
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return err
				}
				_ = resp.Body.Close()
				return nil
			},
		},
	})

	if err != nil {
		if pollfetch.IsAborted(err) {
			fmt.Println("cancelled; server-side task cleaned up")
			return
		}
		slog.Error("call failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("task finished: %s\n", reply.Body)
}
