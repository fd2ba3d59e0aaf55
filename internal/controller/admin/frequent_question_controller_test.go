package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/knakai/examprep/internal/auth"
	"github.com/knakai/examprep/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFrequentService struct {
	updated int
	err     error
	got     []dto.FrequentQuestionItemDTO
}

func (s *stubFrequentService) GetFrequentQuestions(userID, examType string, limit int) ([]uint, error) {
	return nil, nil
}

func (s *stubFrequentService) ReplaceFrequentQuestions(items []dto.FrequentQuestionItemDTO) (int, error) {
	s.got = items
	return s.updated, s.err
}

func newTestRouter(ctrl *FrequentQuestionController, ident *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if ident != nil {
			auth.SetIdentity(c, ident)
		}
	})
	r.POST("/frequent-questions", ctrl.ReplaceFrequentQuestions)
	return r
}

func postBatch(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/frequent-questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReplaceFrequentQuestions_RequiresAdminGroup(t *testing.T) {
	ctrl := NewFrequentQuestionController(&stubFrequentService{})

	r := newTestRouter(ctrl, &auth.Identity{SubjectID: "user-1", Groups: []string{"testers"}})
	w := postBatch(r, `{"questions":[{"question_id":1,"final_score":0.5,"exam_type":"math"}]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = newTestRouter(ctrl, nil)
	w = postBatch(r, `{"questions":[{"question_id":1,"final_score":0.5,"exam_type":"math"}]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReplaceFrequentQuestions_ReturnsUpdatedCount(t *testing.T) {
	svc := &stubFrequentService{updated: 2}
	ctrl := NewFrequentQuestionController(svc)
	r := newTestRouter(ctrl, &auth.Identity{SubjectID: "admin-1", Groups: []string{auth.AdminGroup}})

	body := `{"questions":[
		{"question_id":1,"final_score":0.5,"exam_type":"math"},
		{"question_id":2,"final_score":0.9,"exam_type":"math"}
	]}`
	w := postBatch(r, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.FrequentQuestionBatchResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.UpdatedCount)
	assert.Contains(t, resp.Message, "2")
	assert.Len(t, svc.got, 2)
}

func TestReplaceFrequentQuestions_RejectsOutOfRangeScore(t *testing.T) {
	ctrl := NewFrequentQuestionController(&stubFrequentService{})
	r := newTestRouter(ctrl, &auth.Identity{SubjectID: "admin-1", Groups: []string{auth.AdminGroup}})

	w := postBatch(r, `{"questions":[{"question_id":1,"final_score":1.5,"exam_type":"math"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
