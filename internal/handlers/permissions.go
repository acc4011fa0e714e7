package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// PermissionHandler exposes the action registry and per-resource decisions for the caller.
type PermissionHandler struct {
	evaluator *permissions.Evaluator
}

func NewPermissionHandler(evaluator *permissions.Evaluator) *PermissionHandler {
	return &PermissionHandler{evaluator: evaluator}
}

type actionView struct {
	ID          string `json:"id"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
}

type decisionView struct {
	Action     string `json:"action"`
	ResourceID string `json:"resource_id"`
	Decision   string `json:"decision"`
	Allowed    bool   `json:"allowed"`
}

// GET /api/permissions/registry
func (h *PermissionHandler) Registry(c *gin.Context) {
	var actions []*permissions.Action
	if resource := strings.TrimSpace(c.Query("resource")); resource != "" {
		actions = permissions.ByResource(resource)
	} else {
		actions = permissions.All()
	}

	out := make([]actionView, 0, len(actions))
	for _, action := range actions {
		out = append(out, actionView{ID: action.ID, Resource: action.Resource, Description: action.Description})
	}
	response.Success(c, http.StatusOK, out)
}

// GET /api/permissions/check?action=&resource_id=
func (h *PermissionHandler) Check(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	action := strings.TrimSpace(c.Query("action"))
	resourceID := strings.TrimSpace(c.Query("resource_id"))
	details := map[string]string{}
	if action == "" {
		details["action"] = "is required"
	}
	if resourceID == "" {
		details["resource_id"] = "is required"
	}
	if len(details) > 0 {
		response.Error(c, errors.NewValidation("action and resource_id are required", details))
		return
	}

	decision, err := h.evaluator.Evaluate(requestContext(c), principal, action, resourceID)
	switch {
	case stderrors.Is(err, permissions.ErrUnknownAction):
		response.Error(c, errors.NewValidation("unknown action", map[string]string{"action": "is not registered"}))
		return
	case err != nil:
		response.Error(c, errors.Wrap(err, "permission check failed"))
		return
	}

	response.Success(c, http.StatusOK, decisionView{
		Action:     action,
		ResourceID: resourceID,
		Decision:   decision.String(),
		Allowed:    decision.Allowed(),
	})
}
