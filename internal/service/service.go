package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/config"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/logging"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/metrics"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/model"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/ratelimit"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/sanitizer"
	apimodel "gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

const (
	// defaultLimit is the page size if the 'limit' URL parameter is omitted.
	defaultLimit = 50

	// maxLimit is the largest accepted value of the 'limit' URL parameter.
	maxLimit = 500

	// defaultSource is stored if a submission does not name its origin.
	defaultSource = "demo-page"

	// maxBodyBytes is the largest accepted request body.
	maxBodyBytes = 64 << 10
)

// countedSources are the sources that get their own label on the submission counter. All other
// sources are counted as 'other'.
var countedSources = map[string]bool{
	defaultSource:      true,
	"bench":            true,
	"integration-test": true,
}

// db is a handle to the database.
var db *sqlx.DB

// insert is a prepared statement for creating a contact request on the database.
var insert *sqlx.NamedStmt

// selectWhereId is a prepared statement for selecting contact requests with a given id.
var selectWhereId *sqlx.Stmt

// deleteWhereId is a prepared statement for deleting a contact request with a given id.
var deleteWhereId *sqlx.Stmt

// logger receives all service log output. It is replaced by SetupHttpRouter.
var logger = zap.NewNop()

// counters are the Prometheus metrics of the current router.
var counters = metrics.New()

// now returns the current time. Tests replace it to get stable timestamps.
var now = func() time.Time { return time.Now().UTC() }

// newId returns the id of a new contact request. Tests replace it to get stable ids.
var newId = uuid.NewString

var registerTagNameOnce sync.Once

// statsGroup collapses concurrent statistics requests into one round of queries.
var statsGroup singleflight.Group

// CreateDatabase initializes and returns a database connection with the specified parameters.
func CreateDatabase(cfg config.Database) (*sql.DB, error) {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Host
	dsn.DBName = cfg.Name
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	sqlDB, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	return sqlDB, nil
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the specified sql database. It
// then prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) error {
	var err error
	db = sqlx.NewDb(sqlDB, "mysql")

	// Prepared statements offer a significant speed increase if executed many times.
	insert, err = db.PrepareNamed(`
		INSERT INTO contact_requests (` + model.Columns + `)
		VALUES (:id, :first_name, :last_name, :email, :company, :company_size, :country,
			:additional_info, :source, :status, :admin_notes, :created_at, :updated_at)
	`)
	if err != nil {
		return fmt.Errorf("could not prepare insert: %w", err)
	}
	selectWhereId, err = db.Preparex(`
		SELECT ` + model.Columns + ` FROM contact_requests WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("could not prepare select: %w", err)
	}
	deleteWhereId, err = db.Preparex(`
		DELETE FROM contact_requests WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("could not prepare delete: %w", err)
	}
	return nil
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(cfg config.Config, log *zap.Logger) *gin.Engine {
	logger = log
	counters = metrics.New()
	registerTagNameOnce.Do(registerJSONTagNames)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("ignoring invalid trusted proxies", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	if cfg.RequestLogging() {
		router.Use(logging.Requests(logger))
	} else {
		logger.Info("Turning off HTTP request logging.")
	}
	router.Use(gin.CustomRecovery(recoverInternalError), limitBody)

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	rejectRateLimited := func(c *gin.Context) {
		counters.Rejected.WithLabelValues("rate_limit").Inc()
		logger.Warn("contact request rate limited", zap.String("clientIP", c.ClientIP()))
	}

	admin := router.Group("/admin/contact-requests")
	admin.POST("", ratelimit.Middleware(limiter, rejectRateLimited), createContactRequest)
	admin.GET("", findContactRequests)
	admin.GET("/stats", computeStats)
	admin.POST("/status", updateStatuses)
	admin.GET("/:id", findContactRequestByID)
	admin.PATCH("/:id", updateContactRequestByID)
	admin.DELETE("/:id", deleteContactRequestByID)

	router.GET("/healthz", checkHealth)
	router.GET("/metrics", gin.WrapH(counters.Handler()))
	return router
}

// registerJSONTagNames makes validation errors report the JSON field names instead of the Go
// field names.
func registerJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// recoverInternalError answers requests whose handler panicked, usually because of a database
// error. The panic is forwarded to Sentry if it is configured.
func recoverInternalError(c *gin.Context, recovered any) {
	logger.Error("request panicked", zap.Any("error", recovered), zap.String("path", c.Request.URL.Path))
	sentry.CurrentHub().Recover(recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

// limitBody caps the size of request bodies, so oversized ones fail while being parsed.
func limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	}
	c.Next()
}

// abort ends the request with a client error.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// createContactRequest stores the contact request specified in the request's JSON. It responds
// with the full contact request including the newly assigned id, the status and the timestamps.
//
// Required fields are firstName, lastName, email, company, companySize and country. If source is
// omitted then 'demo-page' is stored. HTML markup is removed from all free text fields.
//
// Example REST API call:
//
//	> curl http://localhost:8080/admin/contact-requests --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "company": "ACME", "companySize": "smb", "country": "germany"}'
func createContactRequest(c *gin.Context) {
	var submission apimodel.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		counters.Rejected.WithLabelValues("validation").Inc()
		abort(c, http.StatusBadRequest, describeBindError(err))
		return
	}
	submission = sanitizeSubmission(submission)
	if message := validateSubmission(submission); message != "" {
		counters.Rejected.WithLabelValues("validation").Inc()
		abort(c, http.StatusBadRequest, message)
		return
	}

	row := model.NewContactRequest(newId(), submission, now())
	if _, err := insert.Exec(&row); err != nil {
		logger.Panic("could not insert contact request", zap.Error(err))
	}
	created := row.API()
	counters.Submitted.WithLabelValues(sourceLabel(created.Source)).Inc()
	logger.Info("New contact request submitted",
		zap.String("id", created.Id),
		zap.String("name", created.FullName()),
		zap.String("company", created.Company))
	c.IndentedJSON(http.StatusCreated, apimodel.Response[apimodel.ContactRequest]{
		Success: true,
		Message: "Contact request submitted successfully",
		Data:    created,
	})
}

// sourceLabel returns the metrics label for a source.
func sourceLabel(source string) string {
	if countedSources[source] {
		return source
	}
	return "other"
}

// describeBindError turns a JSON binding error into the message sent to the client.
func describeBindError(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("request body must be at most %d bytes", tooLarge.Limit)
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid JSON data"
	}
	var missing, invalid []string
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			missing = append(missing, fieldError.Field())
		case "email":
			invalid = append(invalid, "invalid email address")
		case "max":
			invalid = append(invalid, fmt.Sprintf("%s must be at most %s characters", fieldError.Field(), fieldError.Param()))
		default:
			invalid = append(invalid, "invalid value for "+fieldError.Field())
		}
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	return strings.Join(invalid, "; ")
}

// sanitizeSubmission strips markup from the free text fields and applies the default source.
func sanitizeSubmission(s apimodel.Submission) apimodel.Submission {
	s.FirstName = sanitizer.Text(s.FirstName)
	s.LastName = sanitizer.Text(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	s.Company = sanitizer.Text(s.Company)
	s.AdditionalInfo = sanitizer.Text(s.AdditionalInfo)
	s.Source = sanitizer.Text(s.Source)
	if s.Source == "" {
		s.Source = defaultSource
	}
	return s
}

// validateSubmission checks what the binding rules cannot express. It returns an empty string if
// the submission is valid.
func validateSubmission(s apimodel.Submission) string {
	var missing []string
	if s.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if s.LastName == "" {
		missing = append(missing, "lastName")
	}
	if s.Company == "" {
		missing = append(missing, "company")
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	if !s.CompanySize.Valid() {
		return "invalid companySize: " + string(s.CompanySize)
	}
	if !s.Country.Valid() {
		return "invalid country: " + string(s.Country)
	}
	return ""
}

// findContactRequests responds with a list of contact requests as JSON, newest first.
//
// The URL parameters 'status', 'companySize', 'country' and 'source' restrict the result to
// contact requests with exactly that value. The URL parameter 'search' matches anywhere in the
// names, the email address, the company and the additional info.
//
// The URL parameter 'limit' specifies how many contact requests are returned (default 50, at most
// 500). The URL parameter 'offset' specifies how many items from the sorted list of results are
// skipped in the beginning. Together with the 'limit' parameter, one can implement paging.
//
// REST API calls:
//
//	> curl "http://localhost:8080/admin/contact-requests"
//	> curl "http://localhost:8080/admin/contact-requests?status=new"
//	> curl "http://localhost:8080/admin/contact-requests?country=germany&companySize=smb"
//	> curl "http://localhost:8080/admin/contact-requests?search=acme"
//	> curl "http://localhost:8080/admin/contact-requests?limit=20&offset=60"
func findContactRequests(c *gin.Context) {
	where, args, success := parseFilters(c)
	if !success {
		return
	}
	limit, offset, success := parseLimitAndOffset(c)
	if !success {
		return
	}

	query := "SELECT " + model.Columns + " FROM contact_requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.ContactRequest
	if err := db.Select(&rows, query, args...); err != nil {
		logger.Panic("could not select contact requests", zap.Error(err))
	}
	contactRequests := make([]apimodel.ContactRequest, 0, len(rows))
	for _, row := range rows {
		contactRequests = append(contactRequests, row.API())
	}
	c.IndentedJSON(http.StatusOK, apimodel.ListResponse{
		Success: true,
		Data:    contactRequests,
		Count:   len(contactRequests),
	})
}

// parseFilters inspects the URL parameters and builds the WHERE conditions with their arguments.
func parseFilters(c *gin.Context) (where []string, args []interface{}, success bool) {
	if status := c.Query("status"); status != "" {
		if !apimodel.Status(status).Valid() {
			abort(c, http.StatusBadRequest, "invalid status parameter")
			return nil, nil, false
		}
		where = append(where, "status = ?")
		args = append(args, status)
	}
	if size := c.Query("companySize"); size != "" {
		if !apimodel.CompanySize(size).Valid() {
			abort(c, http.StatusBadRequest, "invalid companySize parameter")
			return nil, nil, false
		}
		where = append(where, "company_size = ?")
		args = append(args, size)
	}
	if country := c.Query("country"); country != "" {
		if !apimodel.Country(country).Valid() {
			abort(c, http.StatusBadRequest, "invalid country parameter")
			return nil, nil, false
		}
		where = append(where, "country = ?")
		args = append(args, country)
	}
	if source := c.Query("source"); source != "" {
		where = append(where, "source = ?")
		args = append(args, source)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		where = append(where, `(first_name LIKE ? OR last_name LIKE ? OR email LIKE ?
			OR company LIKE ? OR additional_info LIKE ?)`)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	return where, args, true
}

// escapeLike escapes the wildcard characters of a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > maxLimit {
			abort(c, http.StatusBadRequest, "invalid limit parameter")
			return 0, 0, false
		}
		limit = value
	}
	if raw := c.Query("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			abort(c, http.StatusBadRequest, "invalid offset parameter")
			return 0, 0, false
		}
		offset = value
	}
	return limit, offset, true
}

// computeStats responds with the number of contact requests per status, company size and country.
//
// Example REST API call:
//
//	> curl http://localhost:8080/admin/contact-requests/stats
func computeStats(c *gin.Context) {
	stats, err, _ := statsGroup.Do("stats", func() (interface{}, error) {
		return loadStats()
	})
	if err != nil {
		logger.Panic("could not count contact requests", zap.Error(err))
	}
	c.IndentedJSON(http.StatusOK, apimodel.Response[apimodel.Stats]{Success: true, Data: stats.(apimodel.Stats)})
}

// loadStats counts the contact requests per status, company size and country.
func loadStats() (apimodel.Stats, error) {
	stats := apimodel.Stats{
		ByStatus:      make(map[apimodel.Status]int),
		ByCompanySize: make(map[apimodel.CompanySize]int),
		ByCountry:     make(map[apimodel.Country]int),
	}
	for _, status := range apimodel.Statuses() {
		stats.ByStatus[status] = 0
	}

	byStatus, err := groupCount("status")
	if err != nil {
		return apimodel.Stats{}, err
	}
	for _, group := range byStatus {
		stats.ByStatus[apimodel.Status(group.Name)] = group.Total
		stats.Total += group.Total
	}
	bySize, err := groupCount("company_size")
	if err != nil {
		return apimodel.Stats{}, err
	}
	for _, group := range bySize {
		stats.ByCompanySize[apimodel.CompanySize(group.Name)] = group.Total
	}
	byCountry, err := groupCount("country")
	if err != nil {
		return apimodel.Stats{}, err
	}
	for _, group := range byCountry {
		stats.ByCountry[apimodel.Country(group.Name)] = group.Total
	}
	return stats, nil
}

// groupCount counts the contact requests per distinct value of the column. The column name must
// be a constant, it is not escaped.
func groupCount(column string) ([]model.GroupCount, error) {
	var groups []model.GroupCount
	query := fmt.Sprintf("SELECT %s AS name, COUNT(*) AS total FROM contact_requests GROUP BY %s", column, column)
	if err := db.Select(&groups, query); err != nil {
		return nil, fmt.Errorf("group by %s: %w", column, err)
	}
	return groups, nil
}

// parseId reads the id parameter of the request URL. It aborts with NOT FOUND if the id is not a
// UUID, since such a contact request cannot exist.
func parseId(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abort(c, http.StatusNotFound, "invalid id parameter")
		return "", false
	}
	return id.String(), true
}

// selectById loads a single contact request. The boolean is false if there is none.
func selectById(id string) (model.ContactRequest, bool) {
	var rows []model.ContactRequest
	if err := selectWhereId.Select(&rows, id); err != nil {
		logger.Panic("could not select contact request", zap.String("id", id), zap.Error(err))
	}
	if len(rows) == 0 {
		return model.ContactRequest{}, false
	}
	return rows[0], true
}

// findContactRequestByID locates the contact request whose id matches the id parameter of the
// request URL, then returns that contact request as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/admin/contact-requests/0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e
func findContactRequestByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	row, found := selectById(id)
	if !found {
		abort(c, http.StatusNotFound, "contact request not found")
		return
	}
	c.IndentedJSON(http.StatusOK, apimodel.Response[apimodel.ContactRequest]{Success: true, Data: row.API()})
}

// updateContactRequestByID changes the status and/or the admin notes of the contact request whose
// id matches the id parameter of the request URL, and responds with the new version of it.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/admin/contact-requests/0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e --request "PATCH" --include --header "Content-Type: application/json" --data '{"status": "contacted"}'
//	> curl http://localhost:8080/admin/contact-requests/0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e --request "PATCH" --include --header "Content-Type: application/json" --data '{"adminNotes": "call back on Monday"}'
func updateContactRequestByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}

	var submitted apimodel.StatusUpdate
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abort(c, http.StatusBadRequest, describeBindError(err))
		return
	}

	var args []interface{}
	query := "UPDATE contact_requests SET "
	if submitted.Status != nil {
		if !submitted.Status.Valid() {
			abort(c, http.StatusBadRequest, "invalid status: "+string(*submitted.Status))
			return
		}
		args = append(args, string(*submitted.Status))
		query += "status=?, "
	}
	if submitted.AdminNotes != nil {
		args = append(args, sanitizer.Text(*submitted.AdminNotes))
		query += "admin_notes=?, "
	}

	// It only makes sense to continue if we have at least one value to update.
	if len(args) == 0 {
		abort(c, http.StatusBadRequest, "no values to be updated")
		return
	}

	query += "updated_at=? WHERE id=?"
	args = append(args, now(), id)
	result, err := db.Exec(query, args...)
	if err != nil {
		logger.Panic("could not update contact request", zap.String("id", id), zap.Error(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Panic("could not read affected rows", zap.Error(err))
	}
	if rowsAffected == 0 {
		abort(c, http.StatusNotFound, "contact request not found")
		return
	}
	if submitted.Status != nil {
		counters.StatusChanges.WithLabelValues(string(*submitted.Status)).Inc()
		logger.Info("contact request status changed", zap.String("id", id), zap.String("status", string(*submitted.Status)))
	}

	// In the HTTP response, return the full contact request after the update.
	row, found := selectById(id)
	if !found {
		abort(c, http.StatusNotFound, "contact request not found")
		return
	}
	c.IndentedJSON(http.StatusOK, apimodel.Response[apimodel.ContactRequest]{Success: true, Data: row.API()})
}

// updateStatuses moves all contact requests named in the body to the same status.
//
// Example REST API call:
//
//	> curl http://localhost:8080/admin/contact-requests/status --request "POST" --include --header "Content-Type: application/json" --data '{"ids": ["0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e"], "status": "in_progress"}'
func updateStatuses(c *gin.Context) {
	var submitted apimodel.BulkStatusUpdate
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abort(c, http.StatusBadRequest, describeBindError(err))
		return
	}
	if !submitted.Status.Valid() {
		abort(c, http.StatusBadRequest, "invalid status: "+string(submitted.Status))
		return
	}
	ids := make([]string, 0, len(submitted.Ids))
	for _, raw := range submitted.Ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid id: "+raw)
			return
		}
		ids = append(ids, id.String())
	}

	query, args, err := sqlx.In("UPDATE contact_requests SET status=?, updated_at=? WHERE id IN (?)",
		string(submitted.Status), now(), ids)
	if err != nil {
		logger.Panic("could not build bulk update", zap.Error(err))
	}
	result, err := db.Exec(db.Rebind(query), args...)
	if err != nil {
		logger.Panic("could not update contact requests", zap.Error(err))
	}
	updated, err := result.RowsAffected()
	if err != nil {
		logger.Panic("could not read affected rows", zap.Error(err))
	}
	counters.StatusChanges.WithLabelValues(string(submitted.Status)).Add(float64(updated))
	logger.Info("contact request statuses changed", zap.Int64("updated", updated), zap.String("status", string(submitted.Status)))
	c.IndentedJSON(http.StatusOK, apimodel.Response[apimodel.BulkStatusResult]{
		Success: true,
		Message: fmt.Sprintf("%d contact requests marked as %s.", updated, strings.ToLower(submitted.Status.Label())),
		Data:    apimodel.BulkStatusResult{Updated: updated},
	})
}

// deleteContactRequestByID deletes the contact request whose id matches the id parameter of the
// request URL from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/admin/contact-requests/0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e --request "DELETE"
func deleteContactRequestByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	result, err := deleteWhereId.Exec(id)
	if err != nil {
		logger.Panic("could not delete contact request", zap.String("id", id), zap.Error(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Panic("could not read affected rows", zap.Error(err))
	}
	if rowsAffected != 1 {
		abort(c, http.StatusNotFound, "contact request not found")
		return
	}
	counters.Deleted.Inc()
	logger.Info("contact request deleted", zap.String("id", id))
	c.IndentedJSON(http.StatusOK, gin.H{"success": true, "message": "contact request deleted"})
}

// checkHealth answers OK if the database is reachable.
func checkHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Warn("database not reachable", zap.Error(err))
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}
