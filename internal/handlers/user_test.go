package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func userContext(method, url, body string, actor *models.User, paramID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyActor, &auth.Actor{ID: actor.ID, Username: actor.Username, Role: actor.Role})
	if paramID != 0 {
		c.Set(constants.ContextKeyParamID, paramID)
	}
	return c, w
}

func TestUserHandler_CreateAndStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	handler := NewUserHandler(services.NewUserService(repository.NewStore(db)))
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	c, w := userContext(http.MethodPost, "/api/users", `{"username":"pat","email":"pat@example.com","role":"pa"}`, admin, 0)
	handler.CreateUser(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.CreatedUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.RolePA, created.User.Role)
	require.Len(t, created.TemporaryPassword, constants.TemporaryPasswordLen)

	c, w = userContext(http.MethodPost, "/api/users", `{"username":"x","email":"x@example.com","role":"boss"}`, admin, 0)
	handler.CreateUser(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = userContext(http.MethodGet, "/api/users/stats", "", admin, 0)
	handler.GetStats(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"total":2,"byRole":{"admin":1,"member":0,"pa":1}}`, w.Body.String())
}

func TestUserHandler_UpdateIgnoresRoleForMember(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	handler := NewUserHandler(services.NewUserService(repository.NewStore(db)))
	bob := testutil.CreateUser(t, db, "bob", models.RoleMember)

	c, w := userContext(http.MethodPut, "/api/users/"+itoa(bob.ID), `{"role":"admin","fullName":"Bob B"}`, bob, bob.ID)
	handler.UpdateUser(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, models.RoleMember, resp.Role)
	require.Equal(t, "Bob B", *resp.FullName)
}

func TestUserHandler_DeleteSelfForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	handler := NewUserHandler(services.NewUserService(repository.NewStore(db)))
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	other := testutil.CreateUser(t, db, "eve", models.RoleMember)

	c, w := userContext(http.MethodDelete, "/api/users/"+itoa(admin.ID), "", admin, admin.ID)
	handler.DeleteUser(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = userContext(http.MethodDelete, "/api/users/"+itoa(other.ID), "", admin, other.ID)
	handler.DeleteUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = userContext(http.MethodGet, "/api/users/"+itoa(other.ID), "", admin, other.ID)
	handler.GetUser(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_ResetPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	handler := NewUserHandler(services.NewUserService(repository.NewStore(db)))
	bob := testutil.CreateUser(t, db, "bob", models.RoleMember)

	c, w := userContext(http.MethodPut, "/api/users/1/password", `{"password":"abc"}`, bob, bob.ID)
	handler.ResetPassword(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = userContext(http.MethodPut, "/api/users/1/password", `{"password":"new-secret"}`, bob, bob.ID)
	handler.ResetPassword(c)
	require.Equal(t, http.StatusOK, w.Code)
}
