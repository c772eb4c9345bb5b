package browser

import (
	"context"
	"mime/multipart"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/logger"
	"bucket-browser/core/middleware/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the browsing session over HTTP.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
	timeout  time.Duration
}

// NewHandler creates a new HTTP handler. timeout bounds every storage call.
func NewHandler(service *Service, logger *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		timeout:  timeout,
	}
}

// StateResponse is the navigation state plus the back button flag.
type StateResponse struct {
	NavigationState
	CanGoBack bool `json:"can_go_back"`
}

// EnterBucketRequest selects a bucket.
type EnterBucketRequest struct {
	Bucket string `json:"bucket" validate:"required,max=255"`
}

// NameRequest carries a folder name.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=1024"`
}

// UploadResult is the per-file result of an upload.
type UploadResult struct {
	Name   string `json:"name"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	OK     bool   `json:"ok"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UploadResponse summarises an upload batch.
type UploadResponse struct {
	Uploaded int            `json:"uploaded"`
	Failed   int            `json:"failed"`
	Results  []UploadResult `json:"results"`
}

// RegisterRoutes registers the storage routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/storage")
	group.Get("/state", h.HandleState)
	group.Get("/buckets", h.HandleBuckets)
	group.Post("/bucket", h.HandleEnterBucket)
	group.Post("/folder", h.HandleEnterFolder)
	group.Post("/up", h.HandleGoUp)
	group.Post("/reset", h.HandleReset)
	group.Get("/listing", h.HandleListing)
	group.Post("/upload", h.HandleUpload)
	group.Post("/folders", h.HandleCreateFolder)
	group.Delete("/objects", h.HandleDeleteObject)
}

func (h *Handler) session(c *fiber.Ctx) *Session {
	return h.service.Session(auth.SessionID(c))
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := errs.HTTPStatus(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Storage request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		l.Info("Storage request rejected", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  errs.KindOf(err).String(),
	})
}

func (h *Handler) bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errs.Invalid("malformed request body: %v", err)
	}
	if err := h.validate.Struct(out); err != nil {
		return errs.Invalid("%v", err)
	}
	return nil
}

func stateJSON(c *fiber.Ctx, state NavigationState) error {
	return c.JSON(StateResponse{NavigationState: state, CanGoBack: state.CanGoBack()})
}

// HandleState returns the current navigation state.
// @Summary Navigation State
// @Description Returns the current bucket, prefix and display path of the caller's browsing session.
// @Tags storage
// @Produce json
// @Success 200 {object} StateResponse
// @Router /storage/state [get]
func (h *Handler) HandleState(c *fiber.Ctx) error {
	return stateJSON(c, h.session(c).State())
}

// HandleBuckets lists the accessible buckets.
// @Summary List Buckets
// @Description Lists every bucket visible to the configured credentials, in backend order.
// @Tags storage
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 403 {object} map[string]string "Access Denied"
// @Failure 503 {object} map[string]string "Backend Unavailable"
// @Router /storage/buckets [get]
func (h *Handler) HandleBuckets(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	buckets, err := h.session(c).ListBuckets(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"buckets": buckets})
}

// HandleEnterBucket moves the session to a bucket root.
// @Summary Enter Bucket
// @Description Switches the session to the root of the given bucket. The bucket is not checked for existence.
// @Tags storage
// @Accept json
// @Produce json
// @Param request body EnterBucketRequest true "Bucket"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid Argument"
// @Router /storage/bucket [post]
func (h *Handler) HandleEnterBucket(c *fiber.Ctx) error {
	var req EnterBucketRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	state, err := h.session(c).EnterBucket(req.Bucket)
	if err != nil {
		return h.fail(c, err)
	}
	return stateJSON(c, state)
}

// HandleEnterFolder descends into a child folder.
// @Summary Enter Folder
// @Description Descends into a folder of the current listing.
// @Tags storage
// @Accept json
// @Produce json
// @Param request body NameRequest true "Folder name"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid Argument"
// @Router /storage/folder [post]
func (h *Handler) HandleEnterFolder(c *fiber.Ctx) error {
	var req NameRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	state, err := h.session(c).EnterFolder(req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return stateJSON(c, state)
}

// HandleGoUp pops one folder level, or leaves the bucket from its root.
// @Summary Go Up
// @Description Moves to the parent folder. From a bucket root this returns to the bucket list.
// @Tags storage
// @Produce json
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Already At Root"
// @Router /storage/up [post]
func (h *Handler) HandleGoUp(c *fiber.Ctx) error {
	state, err := h.session(c).GoUp()
	if err != nil {
		return h.fail(c, err)
	}
	return stateJSON(c, state)
}

// HandleReset returns to the bucket list.
// @Summary Reset Navigation
// @Tags storage
// @Produce json
// @Success 200 {object} StateResponse
// @Router /storage/reset [post]
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	return stateJSON(c, h.session(c).Reset())
}

// HandleListing lists the current folder.
// @Summary Current Listing
// @Description Lists folders and files directly under the current prefix. Files carry a time-limited download URL.
// @Tags storage
// @Produce json
// @Success 200 {object} Listing
// @Failure 400 {object} map[string]string "No Bucket Selected"
// @Failure 404 {object} map[string]string "Bucket Not Found"
// @Failure 503 {object} map[string]string "Backend Unavailable"
// @Router /storage/listing [get]
func (h *Handler) HandleListing(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	listing, err := h.session(c).Listing(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(listing)
}

// HandleUpload uploads files into the current folder.
// @Summary Upload Files
// @Description Uploads every file of the multipart field "files". Each file succeeds or fails on its own.
// @Tags storage
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]string "Invalid Argument"
// @Router /storage/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return h.fail(c, errs.Invalid("expected a multipart form: %v", err))
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return h.fail(c, errs.Invalid("no files in field %q", "files"))
	}

	files := make([]UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return h.fail(c, errs.Invalid("unreadable upload %q: %v", fh.Filename, err))
		}
		opened = append(opened, f)
		files = append(files, UploadFile{Name: fh.Filename, Body: f, Size: fh.Size})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	outcomes, err := h.service.Upload(ctx, auth.User(c), auth.SessionID(c), files)
	if err != nil {
		return h.fail(c, err)
	}

	resp := UploadResponse{Results: make([]UploadResult, 0, len(outcomes))}
	for _, o := range outcomes {
		r := UploadResult{Name: o.Name, Bucket: o.Bucket, Key: o.Key, OK: o.OK()}
		if o.OK() {
			resp.Uploaded++
		} else {
			resp.Failed++
			r.Kind = errs.KindOf(o.Err).String()
			r.Error = o.Err.Error()
		}
		resp.Results = append(resp.Results, r)
	}
	return c.JSON(resp)
}

// HandleCreateFolder creates a folder in the current folder.
// @Summary Create Folder
// @Description Writes a zero-byte folder marker. Creating an existing folder again succeeds.
// @Tags storage
// @Accept json
// @Produce json
// @Param request body NameRequest true "Folder name"
// @Success 201 {object} ObjectRef
// @Failure 400 {object} map[string]string "Invalid Argument"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /storage/folders [post]
func (h *Handler) HandleCreateFolder(c *fiber.Ctx) error {
	var req NameRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	ref, err := h.service.CreateFolder(ctx, auth.User(c), auth.SessionID(c), req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ref)
}

// HandleDeleteObject deletes an object from the current folder.
// @Summary Delete Object
// @Description Deletes an object of the current folder. Deleting an object that is already gone succeeds.
// @Tags storage
// @Produce json
// @Param name query string true "Object name relative to the current folder"
// @Success 200 {object} ObjectRef
// @Failure 400 {object} map[string]string "Invalid Argument"
// @Failure 403 {object} map[string]string "Access Denied"
// @Router /storage/objects [delete]
func (h *Handler) HandleDeleteObject(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	ref, err := h.service.DeleteObject(ctx, auth.User(c), auth.SessionID(c), c.Query("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ref)
}
