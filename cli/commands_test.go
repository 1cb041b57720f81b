package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/pkg/session"
)

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command against handler with JSON output and an
// in-memory session filesystem.
func runCLI(t *testing.T, fs afero.Fs, handler http.Handler, args ...string) cliRun {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	root := RootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args,
		"--base-url", server.URL,
		"--session", filepath.Join("/sessions", t.Name(), "session.json"),
		"--format", "json",
		"--env-file", "",
		"--config", "",
		"--log-level", "disabled",
	))
	err := root.ExecuteContext(cmd.ContextWithFs(t.Context(), fs))
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func decodeOutput(t *testing.T, run cliRun, out any) {
	t.Helper()
	require.NoError(t, run.err, run.stderr)
	require.NoError(t, json.Unmarshal([]byte(run.stdout), out), run.stdout)
}

func errorCode(t *testing.T, run cliRun) string {
	t.Helper()
	require.Error(t, run.err)
	assert.True(t, cmd.IsReported(run.err))
	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(run.stderr), &payload), run.stderr)
	return payload.Code
}

const workflowPayload = `{
	"_id": "w1",
	"title": "Launch",
	"tasks": [
		{"_id": "a", "title": "Design", "status": "bogus", "children": [
			{"_id": "a1", "title": "Mockups", "status": "done"}
		]},
		{"_id": "b", "title": "Build"}
	]
}`

func workflowMux(statusCalls *atomic.Int32, lastBody *string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workflows/w1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, workflowPayload)
	})
	mux.HandleFunc("PATCH /tasks/w1/parent/{task}/status", func(w http.ResponseWriter, r *http.Request) {
		statusCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		*lastBody = string(body)
		writeJSON(w, http.StatusOK, `{"message":"updated"}`)
	})
	return mux
}

func TestWorkflowCommands(t *testing.T) {
	t.Run("Should show a normalized workflow", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "show", "w1")
		var wf struct {
			ID    string `json:"id"`
			Tasks []struct {
				ID       string `json:"id"`
				Status   string `json:"status"`
				Children []struct {
					ID string `json:"id"`
				} `json:"children"`
			} `json:"tasks"`
		}
		decodeOutput(t, run, &wf)
		assert.Equal(t, "w1", wf.ID)
		require.Len(t, wf.Tasks, 2)
		assert.Equal(t, "todo", wf.Tasks[0].Status)
		require.Len(t, wf.Tasks[0].Children, 1)
		assert.Equal(t, "a1", wf.Tasks[0].Children[0].ID)
	})

	t.Run("Should print the raw payload untouched", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "raw", "w1", "--compact")
		require.NoError(t, run.err, run.stderr)
		assert.JSONEq(t, workflowPayload, run.stdout)
		assert.Contains(t, run.stdout, `"status":"bogus"`)
	})

	t.Run("Should print the flattened tree", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "tree", "w1")
		var flat []struct {
			ID       string  `json:"id"`
			Level    int     `json:"level"`
			ParentID *string `json:"parentId"`
		}
		decodeOutput(t, run, &flat)
		require.Len(t, flat, 3)
		assert.Equal(t, []string{"a", "a1", "b"}, []string{flat[0].ID, flat[1].ID, flat[2].ID})
		assert.Equal(t, 1, flat[1].Level)
		require.NotNil(t, flat[1].ParentID)
		assert.Equal(t, "a", *flat[1].ParentID)
		assert.Nil(t, flat[2].ParentID)
	})

	t.Run("Should update a task status on the backend and report it", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "status", "w1", "a", "in_progress")
		var result struct {
			Task struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"task"`
			Previous string `json:"previous_status"`
		}
		decodeOutput(t, run, &result)
		assert.Equal(t, int32(1), calls.Load())
		assert.JSONEq(t, `{"new_status":"in_progress"}`, body)
		assert.Equal(t, "in_progress", result.Task.Status)
		assert.Equal(t, "todo", result.Previous)
	})

	t.Run("Should refuse tasks that are not in the workflow", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "status", "w1", "zzz", "done")
		assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, run))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		var calls atomic.Int32
		var body string
		run := runCLI(t, afero.NewMemMapFs(), workflowMux(&calls, &body), "workflow", "status", "w1", "a", "blocked")
		assert.Equal(t, "INVALID_STATUS", errorCode(t, run))
	})

	t.Run("Should require from and to for order", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "workflow", "order", "w1", "a", "--to", "2")
		assert.Equal(t, "MISSING_FLAG", errorCode(t, run))
	})

	t.Run("Should report a missing workflow as not found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /workflows/nope", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"detail":"Workflow not found"}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "workflow", "show", "nope")
		assert.Equal(t, "NOT_FOUND", errorCode(t, run))
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Should request an OTP with flags", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "ada@example.com", req["email"])
			writeJSON(w, http.StatusOK, `{"message":"OTP sent to your email"}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "auth", "login", "--email", "ada@example.com", "--password", "secret")
		var resp struct {
			Message string `json:"message"`
		}
		decodeOutput(t, run, &resp)
		assert.Equal(t, "OTP sent to your email", resp.Message)
	})

	t.Run("Should require an email without prompts", func(t *testing.T) {
		t.Setenv("TASKFORGE_AUTH_EMAIL", "")
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "auth", "login", "--password", "secret")
		assert.Error(t, run.err)
	})

	t.Run("Should persist cookies after verifying the OTP", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/verify-otp", func(w http.ResponseWriter, _ *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "abc", Path: "/"})
			writeJSON(w, http.StatusOK, `{"user":{"id":"u1","name":"Ada","email":"ada@example.com"}}`)
		})
		run := runCLI(t, fs, mux, "auth", "verify-otp", "--email", "ada@example.com", "--otp", "123456")
		var result struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		decodeOutput(t, run, &result)
		assert.Equal(t, "u1", result.User.ID)

		store, err := session.Open(fs, filepath.Join("/sessions", t.Name(), "session.json"))
		require.NoError(t, err)
		assert.Equal(t, 1, store.Jar().Len())
	})

	t.Run("Should record the expired session and report it", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		var refreshes atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
		})
		mux.HandleFunc("POST /users/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
			refreshes.Add(1)
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Refresh token expired"}`)
		})
		run := runCLI(t, fs, mux, "auth", "me")
		assert.Equal(t, "SESSION_EXPIRED", errorCode(t, run))
		assert.Equal(t, int32(1), refreshes.Load())

		store, err := session.Open(fs, filepath.Join("/sessions", t.Name(), "session.json"))
		require.NoError(t, err)
		message, ok := store.Get(session.AuthErrorKey)
		require.True(t, ok)
		assert.Equal(t, session.SessionExpiredMessage, message)
	})

	t.Run("Should validate the register kind", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "auth", "register", "robot")
		assert.Error(t, run.err)
	})

	t.Run("Should register a team account", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/register/team", func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "Acme", req["organization_name"])
			writeJSON(w, http.StatusCreated, `{"message":"Check your email"}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "auth", "register", "team",
			"--email", "ada@example.com", "--name", "Ada", "--password", "longenough", "--org-name", "Acme")
		var resp struct {
			Message string `json:"message"`
		}
		decodeOutput(t, run, &resp)
		assert.Equal(t, "Check your email", resp.Message)
	})
}

const organizationsPayload = `{"organizations":[
	{"id":"o1","name":"Personal","slug":"personal","is_active":false},
	{"id":"o2","name":"Acme","slug":"acme","is_active":true}
],"total":2}`

func orgMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/my-organizations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, organizationsPayload)
	})
	return mux
}

func TestOrganizationCommands(t *testing.T) {
	t.Run("Should list organizations", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), orgMux(), "org", "list")
		var list struct {
			Total int `json:"total"`
		}
		decodeOutput(t, run, &list)
		assert.Equal(t, 2, list.Total)
	})

	t.Run("Should list members by organization slug", func(t *testing.T) {
		mux := orgMux()
		mux.HandleFunc("GET /organizations/personal/members", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"members":[{"id":"u1","name":"Ada","email":"ada@example.com","role":"owner"}]}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "org", "members", "--org", "o1")
		var members []struct {
			Name string `json:"name"`
		}
		decodeOutput(t, run, &members)
		require.Len(t, members, 1)
		assert.Equal(t, "Ada", members[0].Name)
	})

	t.Run("Should report unknown organizations", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), orgMux(), "org", "switch", "globex")
		assert.Equal(t, "ORG_NOT_FOUND", errorCode(t, run))
	})
}

func TestDashboardCommands(t *testing.T) {
	t.Run("Should unwrap the summary for the active organization", func(t *testing.T) {
		mux := orgMux()
		mux.HandleFunc("GET /dashboard/summary/o2", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{
				"stats":{"total_tasks":4,"completed_tasks":1},
				"recent_tasks":[{"id":"t1","title":"Ship"}],
				"active_projects":[],"upcoming_deadlines":[],"recent_activity":[]
			}}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "dashboard", "summary")
		var summary struct {
			Stats struct {
				TotalTasks int `json:"total_tasks"`
			} `json:"stats"`
			RecentTasks []struct {
				ID string `json:"id"`
			} `json:"recent_tasks"`
		}
		decodeOutput(t, run, &summary)
		assert.Equal(t, 4, summary.Stats.TotalTasks)
		require.Len(t, summary.RecentTasks, 1)
	})

	t.Run("Should merge refreshed sections into the summary", func(t *testing.T) {
		mux := orgMux()
		mux.HandleFunc("GET /dashboard/summary/o2", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"stats":{"total_tasks":1}}}`)
		})
		mux.HandleFunc("GET /dashboard/stats/o2", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"total_tasks":9}}`)
		})
		for _, section := range []string{"recent-tasks", "active-projects", "upcoming-deadlines", "recent-activity"} {
			mux.HandleFunc("GET /dashboard/"+section+"/o2", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
			})
		}
		run := runCLI(t, afero.NewMemMapFs(), mux, "dashboard", "summary", "--refresh")
		var summary struct {
			Stats struct {
				TotalTasks int `json:"total_tasks"`
			} `json:"stats"`
		}
		decodeOutput(t, run, &summary)
		assert.Equal(t, 9, summary.Stats.TotalTasks)
	})

	t.Run("Should fail without an active organization", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /organizations/my-organizations", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"organizations":[],"total":0}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "dashboard", "stats")
		assert.Equal(t, "NO_ACTIVE_ORG", errorCode(t, run))
	})
}

func TestTaskCommands(t *testing.T) {
	t.Run("Should send only changed fields with typed set values", func(t *testing.T) {
		var received map[string]any
		mux := http.NewServeMux()
		mux.HandleFunc("PUT /tasks/update-task-partial", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			writeJSON(w, http.StatusOK, `{"message":"Task updated"}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "task", "update", "t1",
			"--title", "Renamed", "--set", "estimated_hours=3", "--set", "archived=true")
		require.NoError(t, run.err, run.stderr)
		assert.Equal(t, "t1", received["task_id"])
		updates, ok := received["updates"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Renamed", updates["title"])
		assert.InDelta(t, 3.0, updates["estimated_hours"], 0.001)
		assert.Equal(t, true, updates["archived"])
		assert.NotContains(t, updates, "description")
	})

	t.Run("Should refuse an empty update", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "task", "update", "t1")
		assert.Equal(t, "NOTHING_TO_UPDATE", errorCode(t, run))
	})

	t.Run("Should group board tasks by column", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /board/b1/tasks", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"tasks":{"c1":[{"id":"t2","position":2},{"id":"t1","position":1}],"c2":[]}}`)
		})
		run := runCLI(t, afero.NewMemMapFs(), mux, "board", "tasks", "b1")
		var columns map[string][]struct {
			ID string `json:"id"`
		}
		decodeOutput(t, run, &columns)
		require.Len(t, columns["c1"], 2)
		assert.Empty(t, columns["c2"])
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("Should report values with their sources", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "config", "show")
		var entries []struct {
			Path   string `json:"path"`
			Source string `json:"source"`
		}
		decodeOutput(t, run, &entries)
		sources := map[string]string{}
		for _, e := range entries {
			sources[e.Path] = e.Source
		}
		assert.Equal(t, "cli", sources["api.base_url"])
		assert.Equal(t, "default", sources["api.user_agent"])
	})

	t.Run("Should validate the effective configuration", func(t *testing.T) {
		run := runCLI(t, afero.NewMemMapFs(), http.NewServeMux(), "config", "validate")
		var result struct {
			Valid bool `json:"valid"`
		}
		decodeOutput(t, run, &result)
		assert.True(t, result.Valid)
	})
}
