package webhooks

import (
	"net/http"
	"sort"
	"strings"

	"github.com/amaken/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// intent maps keywords in both languages to a candidate API call.
type intent struct {
	Action   string
	Method   string
	Endpoint string
	Keywords []string
}

// The keyword tables are deliberately small. The agent on the other end
// disambiguates with the user, this endpoint only ranks candidates.
var intents = []intent{
	{
		Action:   ActionCreateOperationalExpense,
		Method:   http.MethodPost,
		Endpoint: "/webhooks/project-managers",
		Keywords: []string{
			"expense", "spent", "paid", "cost", "bought", "purchase", "invoice me",
			"مصروف", "صرفت", "دفعت", "اشتريت", "تكلفة", "فاتورة",
		},
	},
	{
		Action:   ActionGetResidentPhone,
		Method:   http.MethodPost,
		Endpoint: "/webhooks/project-managers",
		Keywords: []string{
			"resident", "phone", "number", "contact", "tenant", "call",
			"ساكن", "هاتف", "رقم", "جوال", "اتصال", "تواصل",
		},
	},
	{
		Action:   ActionListProjectTickets,
		Method:   http.MethodPost,
		Endpoint: "/webhooks/project-managers",
		Keywords: []string{
			"ticket", "tickets", "maintenance", "repair", "complaint", "issue",
			"تذكرة", "تذاكر", "صيانة", "عطل", "شكوى", "مشكلة",
		},
	},
	{
		Action:   ScopeAccounting,
		Method:   http.MethodGet,
		Endpoint: "/webhooks/query",
		Keywords: []string{
			"total", "totals", "balance", "pending", "accounting", "payroll", "report",
			"إجمالي", "رصيد", "معلق", "محاسبة", "رواتب", "تقرير",
		},
	},
	{
		Action:   ScopeProject,
		Method:   http.MethodGet,
		Endpoint: "/webhooks/query",
		Keywords: []string{
			"project", "summary", "status", "overview",
			"مشروع", "ملخص", "حالة", "نظرة",
		},
	},
}

type interpretRequest struct {
	Text string `json:"text" example:"صرفت 500 على مضخة المياه في A-101"` // What the user wrote
}

// Candidate is one possible API call for the text, ranked by
// confidence.
type Candidate struct {
	Action     string  `json:"action" example:"CREATE_OPERATIONAL_EXPENSE"`
	Method     string  `json:"method" example:"POST"`
	Endpoint   string  `json:"endpoint" example:"/webhooks/project-managers"`
	Confidence float64 `json:"confidence" example:"0.67"` // Share of matched keywords, 0 to 1
}

type interpretResponse struct {
	Error      *string     `json:"error,omitempty"` // The error, if any occurred
	Candidates []Candidate `json:"candidates"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Webhooks
// @Success		204
// @Router			/webhooks/query/interpret [options]
func OptionsInterpret(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Interpret free text
// @Description	Matches Arabic/English keywords in the text against the webhook actions and returns candidate API calls ranked by confidence
// @Tags			Webhooks
// @Accept			json
// @Produce		json
// @Success		200		{object}	interpretResponse
// @Failure		400		{object}	interpretResponse
// @Param			request	body		interpretRequest	true	"Request"
// @Router			/webhooks/query/interpret [post]
func Interpret(c *gin.Context) {
	var request interpretRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, interpretResponse{Error: &e})
		return
	}

	text := strings.ToLower(request.Text)

	candidates := make([]Candidate, 0)
	for _, intent := range intents {
		matched := 0
		for _, keyword := range intent.Keywords {
			if strings.Contains(text, keyword) {
				matched++
			}
		}

		if matched == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			Action:     intent.Action,
			Method:     intent.Method,
			Endpoint:   intent.Endpoint,
			Confidence: float64(matched) / float64(len(intent.Keywords)),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	c.JSON(http.StatusOK, interpretResponse{Candidates: candidates})
}
