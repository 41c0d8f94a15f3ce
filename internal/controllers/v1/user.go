package v1

import (
	"fmt"
	"net/http"

	"github.com/amaken/backend/internal/httputil"
	"github.com/amaken/backend/internal/identity"
	"github.com/amaken/backend/internal/models"
	ez_uuid "github.com/amaken/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterUserRoutes registers the routes for users with
// the RouterGroup that is passed.
func RegisterUserRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUsers)
		r.GET("", GetUsers)
		r.POST("", CreateUser)
	}

	// User with ID
	{
		r.OPTIONS("/:id", OptionsUserDetail)
		r.GET("/:id", GetUser)
		r.PATCH("/:id", UpdateUser)
		r.DELETE("/:id", DeleteUser)
	}
}

type UserEditable struct {
	Name               string          `json:"name" example:"Rania Aziz"`                                               // Name of the user
	Email              string          `json:"email" example:"rania@example.com"`                                       // Email used to log in, unique
	Password           string          `json:"password,omitempty" example:"morecoffee"`                                 // Password, only used on create and password changes
	Role               models.UserRole `json:"role" example:"PROJECT_MANAGER" enums:"ADMIN,ACCOUNTANT,PROJECT_MANAGER"` // Role of the user
	WhatsappNumber     *string         `json:"whatsappNumber" example:"+966501234567"`                                  // WhatsApp number the automation agent resolves the user by
	CanViewAllProjects bool            `json:"canViewAllProjects" example:"false"`                                      // Grants a project manager access to every project
	ProjectIDs         []ez_uuid.UUID  `json:"projectIds"`                                                              // Projects the user is assigned to, replaced wholesale on updates
}

type UserLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/users/b2f35c21-51c4-4f4c-9e8f-f5f832ba9ecb"` // The user itself
}

// User is the API representation of a user. The password hash is never
// part of it.
type User struct {
	models.DefaultModel
	Name               string          `json:"name" example:"Rania Aziz"`
	Email              string          `json:"email" example:"rania@example.com"`
	Role               models.UserRole `json:"role" example:"PROJECT_MANAGER"`
	WhatsappNumber     *string         `json:"whatsappNumber" example:"+966501234567"`
	CanViewAllProjects bool            `json:"canViewAllProjects" example:"false"`
	ProjectIDs         []ez_uuid.UUID  `json:"projectIds"`
	Links              UserLinks       `json:"links"`
}

func newUser(c *gin.Context, model models.User) (User, error) {
	url := c.GetString(string(models.DBContextURL))

	assigned, err := model.AssignedProjectIDs(models.DB)
	if err != nil {
		return User{}, err
	}

	projectIDs := make([]ez_uuid.UUID, 0, len(assigned))
	for _, id := range assigned {
		projectIDs = append(projectIDs, ez_uuid.UUID{UUID: id})
	}

	return User{
		DefaultModel:       model.DefaultModel,
		Name:               model.Name,
		Email:              model.Email,
		Role:               model.Role,
		WhatsappNumber:     model.WhatsappNumber,
		CanViewAllProjects: model.CanViewAllProjects,
		ProjectIDs:         projectIDs,
		Links: UserLinks{
			Self: fmt.Sprintf("%s/v1/users/%s", url, model.ID),
		},
	}, nil
}

type UserResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *User   `json:"data"`  // The User data
}

type UserListResponse struct {
	Data       []User      `json:"data"`       // List of users
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type UserQueryFilter struct {
	Role   string `form:"role"`  // By role
	Email  string `form:"email"` // By login email
	Offset uint   `form:"offset" filterField:"false"`
	Limit  int    `form:"limit" filterField:"false"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Router			/v1/users [options]
func OptionsUsers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [options]
func OptionsUserDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.User{})
}

// @Summary		List users
// @Description	Returns a list of users
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserListResponse
// @Failure		400	{object}	UserListResponse
// @Failure		403	{object}	httpError
// @Failure		500	{object}	UserListResponse
// @Param			role	query	string	false	"Filter by role"
// @Param			email	query	string	false	"Filter by login email"
// @Param			offset	query	uint	false	"The offset of the first User returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Users to return. Defaults to 50."
// @Router			/v1/users [get]
func GetUsers(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var filter UserQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, UserListResponse{Error: &s})
		return
	}

	q := models.DB.Order("users.name ASC")

	if filter.Role != "" {
		q = q.Where("users.role = ?", filter.Role)
	}

	if filter.Email != "" {
		q = q.Where("users.email = ?", filter.Email)
	}

	q = q.Offset(int(filter.Offset))

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q = q.Limit(limit)

	var users []models.User
	err := q.Find(&users).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserListResponse{Error: &e})
		return
	}

	data := make([]User, 0)
	for _, user := range users {
		u, err := newUser(c, user)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), UserListResponse{Error: &e})
			return
		}

		data = append(data, u)
	}

	c.JSON(http.StatusOK, UserListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get user
// @Description	Returns a specific user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	UserResponse
// @Failure		403	{object}	httpError
// @Failure		404	{object}	UserResponse
// @Failure		500	{object}	UserResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [get]
func GetUser(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var user models.User
	if !fetchResource(c, &user) {
		return
	}

	data, err := newUser(c, user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// @Summary		Create user
// @Description	Creates a new user together with their project assignments
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	UserResponse
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users [post]
func CreateUser(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var editable UserEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	hash, err := identity.HashPassword(editable.Password)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
		return
	}

	user := models.User{
		Name:               editable.Name,
		Email:              editable.Email,
		PasswordHash:       hash,
		Role:               editable.Role,
		WhatsappNumber:     editable.WhatsappNumber,
		CanViewAllProjects: editable.CanViewAllProjects,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&user).Error
		if err != nil {
			return err
		}

		return replaceAssignments(tx, user.ID, editable.ProjectIDs)
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data, err := newUser(c, user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: &data})
}

// @Summary		Update user
// @Description	Updates an existing user. Only values to be updated need to be specified. A projectIds list replaces all assignments.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users/{id} [patch]
func UpdateUser(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var user models.User
	if !fetchResource(c, &user) {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, UserEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var update UserEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	// Password and assignments are not columns of the user, they are
	// handled separately below
	fields := make([]any, 0, len(updateFields))
	var setPassword, setAssignments bool
	for _, field := range updateFields {
		switch field {
		case "Password":
			setPassword = true
		case "ProjectIDs":
			setAssignments = true
		default:
			fields = append(fields, field)
		}
	}

	model := models.User{
		Name:               update.Name,
		Email:              update.Email,
		Role:               update.Role,
		WhatsappNumber:     update.WhatsappNumber,
		CanViewAllProjects: update.CanViewAllProjects,
	}

	if setPassword {
		hash, err := identity.HashPassword(update.Password)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, UserResponse{Error: &e})
			return
		}

		model.PasswordHash = hash
		fields = append(fields, "PasswordHash")
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			err := tx.Model(&user).Select("", fields...).Updates(model).Error
			if err != nil {
				return err
			}
		}

		if setAssignments {
			return replaceAssignments(tx, user.ID, update.ProjectIDs)
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data, err := newUser(c, user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &data})
}

// @Summary		Delete user
// @Description	Deletes a user and their project assignments
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	_, ok := requireAction(c, identity.ActionManageDirectory)
	if !ok {
		return
	}

	var user models.User
	if !fetchResource(c, &user) {
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", user.ID).Delete(&models.ProjectAssignment{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// replaceAssignments swaps the user's project assignments for the
// passed list.
func replaceAssignments(tx *gorm.DB, userID uuid.UUID, projectIDs []ez_uuid.UUID) error {
	err := tx.Where("user_id = ?", userID).Delete(&models.ProjectAssignment{}).Error
	if err != nil {
		return err
	}

	// Duplicates in the request would trip the unique index
	seen := make([]uuid.UUID, 0, len(projectIDs))
	for _, id := range projectIDs {
		if slices.Contains(seen, id.UUID) {
			continue
		}
		seen = append(seen, id.UUID)

		assignment := models.ProjectAssignment{UserID: userID, ProjectID: id.UUID}
		err = tx.Create(&assignment).Error
		if err != nil {
			return err
		}
	}

	return nil
}
