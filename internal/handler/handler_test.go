package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shiftfill/shiftfill/pkg/engine"
	"github.com/shiftfill/shiftfill/pkg/model"
)

func histCell(t *testing.T, emp int64, day int, job int64, start, end string) *model.Cell {
	t.Helper()
	e := emp
	c, err := model.NewCell(model.CellRecord{
		ScheduleDetailID: 1000,
		DayNum:           day,
		JobNumber:        job,
		EmployeeNumber:   &e,
		StartTime:        start,
		EndTime:          end,
		SnapshotDate:     "2024-09-10",
	})
	if err != nil {
		t.Fatalf("构造历史单元格失败: %v", err)
	}
	return c
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()

	var historical []*model.Cell
	for i := 0; i < 10; i++ {
		historical = append(historical, histCell(t, 3472779, 5, 42, "08:00:00", "16:00:00"))
	}
	for i := 0; i < 8; i++ {
		historical = append(historical, histCell(t, 67890, 1, 99, "22:00:00", "06:00:00"))
	}

	emp67890 := int64(67890)
	latest := []model.CellRecord{
		{
			ScheduleDetailID: 8849241, DayNum: 1, JobNumber: 99,
			EmployeeNumber: &emp67890, StartTime: "22:00:00", EndTime: "06:00:00",
			SnapshotDate: "2024-10-08",
		},
		{
			ScheduleDetailID: 1954945, DayNum: 5, JobNumber: 42,
			StartTime: "08:00:00", EndTime: "16:00:00",
			SnapshotDate: "2024-10-08",
		},
	}

	e, err := engine.New(engine.Params{Historical: historical, Latest: latest})
	if err != nil {
		t.Fatalf("构建引擎失败: %v", err)
	}
	return e
}

func testHandler(t *testing.T) *EngineHandler {
	t.Helper()
	return NewEngineHandler(testEngine(t), 5*time.Second)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("解析响应体失败: %v", err)
	}
}

func TestResolveCellGet(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cells/resolve?schedule_detail_id=1954945&day_num=5", nil)
	w := httptest.NewRecorder()
	h.ResolveCell(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, body = %s", w.Code, w.Body.String())
	}

	var out engine.CellOutcome
	decodeBody(t, w, &out)
	if out.Status != engine.OutcomeAssigned {
		t.Errorf("状态 = %s, want assigned", out.Status)
	}
	if out.EmployeeNumber == nil || *out.EmployeeNumber != 3472779 {
		t.Errorf("补位员工 = %v, want 3472779", out.EmployeeNumber)
	}
}

func TestResolveCellPost(t *testing.T) {
	h := testHandler(t)

	body := `{"schedule_detail_id": 8849241, "day_num": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cells/resolve", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ResolveCell(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}

	var out engine.CellOutcome
	decodeBody(t, w, &out)
	if out.Status != engine.OutcomeAlreadyFilled {
		t.Errorf("状态 = %s, want already_filled", out.Status)
	}
	if out.EmployeeNumber == nil || *out.EmployeeNumber != 67890 {
		t.Errorf("现任员工 = %v, want 67890", out.EmployeeNumber)
	}
}

func TestResolveCellNotFound(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cells/resolve?schedule_detail_id=9999999&day_num=1", nil)
	w := httptest.NewRecorder()
	h.ResolveCell(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	var out engine.CellOutcome
	decodeBody(t, w, &out)
	if out.Status != engine.OutcomeNotFound {
		t.Errorf("状态 = %s, want not_found", out.Status)
	}
}

func TestResolveCellInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"缺少参数", "/api/v1/cells/resolve"},
		{"非整数标识", "/api/v1/cells/resolve?schedule_detail_id=abc&day_num=5"},
		{"DayNum越界", "/api/v1/cells/resolve?schedule_detail_id=1954945&day_num=9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHandler(t)
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			h.ResolveCell(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("状态码 = %d, want 400", w.Code)
			}
			var body map[string]interface{}
			decodeBody(t, w, &body)
			if body["error"] != true {
				t.Error("错误响应应包含 error=true")
			}
		})
	}
}

func TestFillWeekHandler(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/fill", nil)
	w := httptest.NewRecorder()
	h.FillWeek(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, body = %s", w.Code, w.Body.String())
	}

	var result engine.FillResult
	decodeBody(t, w, &result)
	if result.Assigned != 1 || result.Unresolved != 0 {
		t.Errorf("assigned=%d unresolved=%d, want 1/0", result.Assigned, result.Unresolved)
	}
	if !result.Optimal {
		t.Error("小实例求解应证明最优")
	}
}

func TestValidateScheduleHandler(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", nil)
	w := httptest.NewRecorder()
	h.ValidateSchedule(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	var result struct {
		IsValid bool `json:"is_valid"`
	}
	decodeBody(t, w, &result)
	if !result.IsValid {
		t.Error("合法快照校验应通过")
	}
}

func TestExplainCandidateHandler(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/cells/explain?employee_number=3472779&schedule_detail_id=1954945&day_num=5", nil)
	w := httptest.NewRecorder()
	h.ExplainCandidate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, body = %s", w.Code, w.Body.String())
	}

	var b struct {
		Total float64 `json:"total"`
	}
	decodeBody(t, w, &b)
	if b.Total <= 0 || b.Total >= 1 {
		t.Errorf("明细总分 = %v", b.Total)
	}
}

func TestExplainCandidateNotFound(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/cells/explain?employee_number=3472779&schedule_detail_id=9999999&day_num=1", nil)
	w := httptest.NewRecorder()
	h.ExplainCandidate(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("状态码 = %d, want 404", w.Code)
	}
}

func TestConstraintLibraryHandler(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/constraints/library", nil)
	w := httptest.NewRecorder()
	h.ConstraintLibrary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	var body struct {
		Constraints []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"constraints"`
	}
	decodeBody(t, w, &body)
	if len(body.Constraints) != 3 {
		t.Errorf("内置约束数 = %d, want 3", len(body.Constraints))
	}
	for _, c := range body.Constraints {
		if c.Category != "hard" {
			t.Errorf("约束 %s 类别 = %s, want hard", c.Name, c.Category)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	var status engine.Health
	decodeBody(t, w, &status)
	if !status.Ready || status.Cells != 2 || status.UnfilledCells != 1 {
		t.Errorf("健康信息异常: %+v", status)
	}
}

func TestStatsHandlers(t *testing.T) {
	e := testEngine(t)
	h := NewStatsHandler(e, 5*time.Second)

	t.Run("补位质量", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/assignment", nil)
		w := httptest.NewRecorder()
		h.AssignmentQuality(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, body = %s", w.Code, w.Body.String())
		}
		var q struct {
			FillRate float64 `json:"fill_rate"`
			Optimal  bool    `json:"optimal"`
		}
		decodeBody(t, w, &q)
		if q.FillRate != 1.0 {
			t.Errorf("补位率 = %v, want 1.0", q.FillRate)
		}
	})

	t.Run("工作量分布", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/workload", nil)
		w := httptest.NewRecorder()
		h.WorkloadDistribution(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d", w.Code)
		}
		var m struct {
			EmployeeStats []struct {
				EmployeeNumber int64   `json:"employee_number"`
				TotalHours     float64 `json:"total_hours"`
			} `json:"employee_stats"`
		}
		decodeBody(t, w, &m)
		// 只有 67890 在最新快照已补位
		if len(m.EmployeeStats) != 1 || m.EmployeeStats[0].EmployeeNumber != 67890 {
			t.Errorf("工作量统计异常: %+v", m.EmployeeStats)
		}
	})
}
