package service

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/config"
	apimodel "gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

// fixedNow is the time stamped onto every row created or updated in these tests.
var fixedNow = time.Date(2025, time.January, 27, 10, 30, 0, 0, time.UTC)

const (
	fixedId = "0b6f6ad4-6a2f-4f3b-9d55-8f1d7d0c2b1e"
	otherId = "6c1b0e0c-6a8e-4a5e-8f39-2c4a9b1d7e55"
)

// columns are the columns of the contact_requests table as returned by the mock database.
var columns = []string{
	"id", "first_name", "last_name", "email", "company", "company_size", "country",
	"additional_info", "source", "status", "admin_notes", "created_at", "updated_at",
}

// sampleBody is a complete and valid submission.
const sampleBody = `
	{
		"firstName": "Test",
		"lastName": "User",
		"email": "test@example.com",
		"company": "Test Company",
		"companySize": "startup",
		"country": "united-states",
		"additionalInfo": "This is a test submission from the demo form",
		"source": "demo-page"
	}
`

func TestMain(m *testing.M) {
	now = func() time.Time { return fixedNow }
	newId = func() string { return fixedId }
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that several statements are being
// prepared.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contact_requests")
	mock.ExpectPrepare("SELECT (.+) FROM contact_requests WHERE id")
	mock.ExpectPrepare("DELETE FROM contact_requests WHERE id")
}

// contactRow returns the values of a stored contact request with the given id and status.
func contactRow(id string, firstName string, status string) []driver.Value {
	return []driver.Value{
		id, firstName, "Mustermann", "erika@example.com", "ACME", "smb", "germany",
		nil, "demo-page", status, nil, fixedNow, fixedNow,
	}
}

// expectSingleRowSelect instructs the mock object to expect that a select statement for a single
// contact request will be executed.
func expectSingleRowSelect(mock sqlmock.Sqlmock, id string, status string) {
	mock.ExpectQuery("SELECT (.+) FROM contact_requests WHERE id").
		WithArgs(id).
		WillReturnRows(mock.NewRows(columns).AddRow(contactRow(id, "Erika", status)...))
}

// testConfig returns a configuration without request logging and without rate limit.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.GinLogging = "off"
	cfg.RateLimit.RequestsPerSecond = 0
	return cfg
}

// initializeService sets up the service with the mock database and returns a handle to the gin
// engine against which requests can be executed.
func initializeService(t *testing.T, db *sql.DB, cfg config.Config, log *zap.Logger) *gin.Engine {
	require.NoError(t, SetupDatabaseWrapper(db))
	return SetupHttpRouter(cfg, log)
}

// serve executes the HTTP request with the specified arguments against the router.
func serve(router *gin.Engine, method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	return recorder
}

// runTest sets up the service and executes a single HTTP request.
func runTest(t *testing.T, db *sql.DB, method string, url string, body string) *httptest.ResponseRecorder {
	router := initializeService(t, db, testConfig(), zap.NewNop())
	return serve(router, method, url, body)
}

// expectMessage asserts that the response is an error response with the given message.
func expectMessage(t *testing.T, recorder *httptest.ResponseRecorder, message string) {
	var body apimodel.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, message, body.Message)
}

// expectSampleInsert instructs the mock object to expect that the sample submission is inserted.
func expectSampleInsert(mock sqlmock.Sqlmock) {
	mock.ExpectExec("INSERT INTO contact_requests").
		WithArgs(
			fixedId, "Test", "User", "test@example.com", "Test Company", "startup", "united-states",
			"This is a test submission from the demo form", "demo-page", "new", nil, fixedNow, fixedNow,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// TestPost executes a POST request with a valid body. It expects that the HTTP request is
// answered with the CREATED status code and the stored contact request.
func TestPost(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSampleInsert(mock)

	// Run test and compare results
	recorder := runTest(t, db, "POST", "/admin/contact-requests", sampleBody)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var body apimodel.Response[apimodel.ContactRequest]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Contact request submitted successfully", body.Message)
	assert.Equal(t, fixedId, body.Data.Id)
	assert.Equal(t, "Test", body.Data.FirstName)
	assert.Equal(t, apimodel.CompanySizeStartup, body.Data.CompanySize)
	assert.Equal(t, apimodel.CountryUnitedStates, body.Data.Country)
	assert.Equal(t, apimodel.StatusNew, body.Data.Status)
	assert.Equal(t, fixedNow, body.Data.CreatedAt)
	assert.Equal(t, fixedNow, body.Data.UpdatedAt)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostDefaultsAndSanitizes executes a POST request without source and additional info, with
// markup in the company name and with markup sent as entities in the last name. It expects that
// the default source is stored, the additional info is NULL and the markup is gone.
func TestPostDefaultsAndSanitizes(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec("INSERT INTO contact_requests").
		WithArgs(
			fixedId, "Erika", "Mustermann", "erika@example.com", "ACME & Sons", "smb", "germany",
			nil, "demo-page", "new", nil, fixedNow, fixedNow,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Run test and compare results
	recorder := runTest(t, db, "POST", "/admin/contact-requests", `
		{
			"firstName": " Erika ",
			"lastName": "&lt;b&gt;Mustermann&lt;/b&gt;",
			"email": "erika@example.com",
			"company": "<b>ACME</b> & Sons",
			"companySize": "smb",
			"country": "germany"
		}
	`)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var body apimodel.Response[apimodel.ContactRequest]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ACME & Sons", body.Data.Company)
	assert.Equal(t, "Mustermann", body.Data.LastName)
	assert.Equal(t, "demo-page", body.Data.Source)
	assert.Empty(t, body.Data.AdditionalInfo)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostMissingFields executes a POST request without several required fields. It expects that
// the missing fields are listed by their JSON names in declaration order.
func TestPostMissingFields(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock) // we expect that the call will fail before the SQL statements

	// Run test and compare results
	recorder := runTest(t, db, "POST", "/admin/contact-requests", `
		{
			"firstName": "Erika",
			"email": "erika@example.com",
			"companySize": "smb"
		}
	`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	expectMessage(t, recorder, "Missing required fields: lastName, company, country")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostOnlyMarkup executes a POST request whose names consist of markup only. It expects that
// they count as missing.
func TestPostOnlyMarkup(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)

	// Run test and compare results
	recorder := runTest(t, db, "POST", "/admin/contact-requests", `
		{
			"firstName": "<i></i>",
			"lastName": "<script>x</script>",
			"email": "erika@example.com",
			"company": "ACME",
			"companySize": "smb",
			"country": "germany"
		}
	`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	expectMessage(t, recorder, "Missing required fields: firstName, lastName")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostInvalidBodies executes POST requests with invalid bodies. It expects that the HTTP
// requests are all answered with the BAD REQUEST status code and a matching message.
func TestPostInvalidBodies(t *testing.T) {
	invalidRequestBodies := map[string]string{
		"":         "Invalid JSON data",
		"not JSON": "Invalid JSON data",
		`{
			"firstName": "Erika"
			"lastName": "Mustermann"
		}`: "Invalid JSON data", // commas missing
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "no-email", "company": "ACME",
			"companySize": "smb", "country": "germany"}`: "invalid email address",
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "company": "ACME",
			"companySize": "huge", "country": "germany"}`: "invalid companySize: huge",
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "company": "ACME",
			"companySize": "smb", "country": "atlantis"}`: "invalid country: atlantis",
		`{"firstName": "` + strings.Repeat("E", 101) + `", "lastName": "Mustermann", "email": "erika@example.com",
			"company": "ACME", "companySize": "smb", "country": "germany"}`: "firstName must be at most 100 characters",
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "company": "ACME",
			"companySize": "smb", "country": "germany", "additionalInfo": "` + strings.Repeat("x", 5001) + `"}`: "additionalInfo must be at most 5000 characters",
		`{"firstName": "Erika", "additionalInfo": "` + strings.Repeat("x", 70000) + `"}`: "request body must be at most 65536 bytes",
	}
	for body, message := range invalidRequestBodies {
		db, mock := createMockObjects(t)

		// Define expectations on SQL statements
		expectPreparedStatements(mock) // we expect that the call will fail before the SQL statements

		// Run test and compare results
		recorder := runTest(t, db, "POST", "/admin/contact-requests", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
		expectMessage(t, recorder, message)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		db.Close()
	}
}

// TestPostRateLimited executes two POST requests from the same client with a burst of one. It
// expects that the second one is answered with TOO MANY REQUESTS and does not reach the database.
func TestPostRateLimited(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSampleInsert(mock)

	// Run test and compare results
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	router := initializeService(t, db, cfg, zap.NewNop())
	assert.Equal(t, http.StatusCreated, serve(router, "POST", "/admin/contact-requests", sampleBody).Code)
	recorder := serve(router, "POST", "/admin/contact-requests", sampleBody)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "60", recorder.Header().Get("Retry-After"))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// serveFrom executes a POST request that a proxy forwarded for the given client IP.
func serveFrom(router *gin.Engine, forwardedFor string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/admin/contact-requests", strings.NewReader(sampleBody))
	request.RemoteAddr = "192.0.2.1:1234"
	request.Header.Set("X-Forwarded-For", forwardedFor)
	router.ServeHTTP(recorder, request)
	return recorder
}

// TestPostRateLimitedIgnoresForwardedFor executes POST requests from the same connection address
// with changing X-Forwarded-For headers. It expects that the headers are ignored without trusted
// proxies, so all but the first request are answered with TOO MANY REQUESTS.
func TestPostRateLimitedIgnoresForwardedFor(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSampleInsert(mock)

	// Run test and compare results
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	router := initializeService(t, db, cfg, zap.NewNop())
	var codes []int
	for _, forwardedFor := range []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"} {
		codes = append(codes, serveFrom(router, forwardedFor).Code)
	}
	assert.Equal(t, []int{201, 429, 429, 429, 429}, codes)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostRateLimitedBehindTrustedProxy executes POST requests through a trusted proxy. It expects
// a bucket per forwarded client IP.
func TestPostRateLimitedBehindTrustedProxy(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSampleInsert(mock)
	expectSampleInsert(mock)

	// Run test and compare results
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	cfg.TrustedProxies = []string{"192.0.2.1"}
	router := initializeService(t, db, cfg, zap.NewNop())
	assert.Equal(t, http.StatusCreated, serveFrom(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, serveFrom(router, "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(router, "10.0.0.1").Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPostIsLoggedAndCounted executes two valid POST requests, the second one with a source that
// has no label of its own. It expects a log line naming the contact and counter increments visible
// on the metrics endpoint, with the unknown source counted as 'other'.
func TestPostIsLoggedAndCounted(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSampleInsert(mock)
	mock.ExpectExec("INSERT INTO contact_requests").
		WithArgs(
			fixedId, "Test", "User", "test@example.com", "Test Company", "startup", "united-states",
			"This is a test submission from the demo form", "campaign-42", "new", nil, fixedNow, fixedNow,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Run test and compare results
	core, logs := observer.New(zapcore.InfoLevel)
	router := initializeService(t, db, testConfig(), zap.New(core))
	assert.Equal(t, http.StatusCreated, serve(router, "POST", "/admin/contact-requests", sampleBody).Code)
	campaignBody := strings.Replace(sampleBody, `"source": "demo-page"`, `"source": "campaign-42"`, 1)
	assert.Equal(t, http.StatusCreated, serve(router, "POST", "/admin/contact-requests", campaignBody).Code)

	submitted := logs.FilterMessage("New contact request submitted").All()
	require.Len(t, submitted, 2)
	assert.Equal(t, "Test User", submitted[0].ContextMap()["name"])
	assert.Equal(t, "Test Company", submitted[0].ContextMap()["company"])

	recorder := serve(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `contact_requests_submitted_total{source="demo-page"} 1`)
	assert.Contains(t, recorder.Body.String(), `contact_requests_submitted_total{source="other"} 1`)
	assert.NotContains(t, recorder.Body.String(), "campaign-42")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAll executes a GET request for all contact requests. It expects the default page size
// and the list of contact requests with its count.
func TestGetAll(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	rows := mock.NewRows(columns).
		AddRow(contactRow(fixedId, "Aaron", "new")...).
		AddRow(contactRow(otherId, "Berta", "contacted")...)
	mock.ExpectQuery("SELECT (.+) FROM contact_requests ORDER BY created_at DESC LIMIT").
		WithArgs(50, 0).
		WillReturnRows(rows)

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body apimodel.ListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Data, 2)
	assert.Equal(t, fixedId, body.Data[0].Id)
	assert.Equal(t, "Aaron", body.Data[0].FirstName)
	assert.Equal(t, apimodel.StatusNew, body.Data[0].Status)
	assert.Equal(t, otherId, body.Data[1].Id)
	assert.Equal(t, "Berta", body.Data[1].FirstName)
	assert.Equal(t, apimodel.StatusContacted, body.Data[1].Status)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAllEmpty executes a GET request on an empty table. It expects an empty list, not an
// error.
func TestGetAllEmpty(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("SELECT (.+) FROM contact_requests ORDER BY").
		WithArgs(50, 0).
		WillReturnRows(mock.NewRows(columns))

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"data": []`)
	assert.Contains(t, recorder.Body.String(), `"count": 0`)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetFiltered executes a GET request with filter and paging parameters. It expects that all of
// them end up as arguments of the query.
func TestGetFiltered(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery(`WHERE status = \? AND country = \? AND source = \? AND \(first_name LIKE \?`).
		WithArgs("contacted", "germany", "demo-page",
			"%ac\\_me%", "%ac\\_me%", "%ac\\_me%", "%ac\\_me%", "%ac\\_me%", 10, 20).
		WillReturnRows(mock.NewRows(columns).AddRow(contactRow(fixedId, "Erika", "contacted")...))

	// Run test and compare results
	recorder := runTest(t, db, "GET",
		"/admin/contact-requests?status=contacted&country=germany&source=demo-page&search=ac_me&limit=10&offset=20", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body apimodel.ListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetInvalidParameters executes GET requests with invalid URL parameters. It expects that the
// HTTP requests are all answered with the BAD REQUEST status code before reaching the database.
func TestGetInvalidParameters(t *testing.T) {
	urls := map[string]string{
		"/admin/contact-requests?limit=0":          "invalid limit parameter",
		"/admin/contact-requests?limit=501":        "invalid limit parameter",
		"/admin/contact-requests?limit=ten":        "invalid limit parameter",
		"/admin/contact-requests?offset=-1":        "invalid offset parameter",
		"/admin/contact-requests?status=archived":  "invalid status parameter",
		"/admin/contact-requests?companySize=huge": "invalid companySize parameter",
		"/admin/contact-requests?country=atlantis": "invalid country parameter",
	}
	for url, message := range urls {
		db, mock := createMockObjects(t)
		expectPreparedStatements(mock)

		recorder := runTest(t, db, "GET", url, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code, url)
		expectMessage(t, recorder, message)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		db.Close()
	}
}

// TestGetDatabaseError lets the list query fail. It expects INTERNAL SERVER ERROR with a generic
// message.
func TestGetDatabaseError(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("SELECT (.+) FROM contact_requests ORDER BY").
		WillReturnError(errors.New("connection reset"))

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	expectMessage(t, recorder, "Internal server error")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestStats executes a GET request for the statistics. It expects totals per status, company size
// and country, with unused statuses reported as zero.
func TestStats(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(mock.NewRows([]string{"name", "total"}).AddRow("new", 3).AddRow("contacted", 1))
	mock.ExpectQuery("GROUP BY company_size").
		WillReturnRows(mock.NewRows([]string{"name", "total"}).AddRow("startup", 4))
	mock.ExpectQuery("GROUP BY country").
		WillReturnRows(mock.NewRows([]string{"name", "total"}).AddRow("germany", 1).AddRow("japan", 3))

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests/stats", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body apimodel.Response[apimodel.Stats]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 4, body.Data.Total)
	assert.Equal(t, map[apimodel.Status]int{
		apimodel.StatusNew:        3,
		apimodel.StatusContacted:  1,
		apimodel.StatusInProgress: 0,
		apimodel.StatusCompleted:  0,
		apimodel.StatusClosed:     0,
	}, body.Data.ByStatus)
	assert.Equal(t, map[apimodel.CompanySize]int{apimodel.CompanySizeStartup: 4}, body.Data.ByCompanySize)
	assert.Equal(t, 3, body.Data.ByCountry[apimodel.CountryJapan])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestStatsDatabaseError lets one of the statistics queries fail. It expects INTERNAL SERVER
// ERROR.
func TestStatsDatabaseError(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(mock.NewRows([]string{"name", "total"}).AddRow("new", 3))
	mock.ExpectQuery("GROUP BY company_size").
		WillReturnError(errors.New("connection reset"))

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests/stats", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	expectMessage(t, recorder, "Internal server error")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGet executes a GET request for a single contact request with a valid id. It expects that the
// JSON for the contact request is returned.
func TestGet(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectSingleRowSelect(mock, fixedId, "in_progress")

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests/"+fixedId, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var getBody map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &getBody))
	data := getBody["data"].(map[string]interface{})
	assert.Equal(t, fixedId, data["id"])
	assert.Equal(t, "Erika", data["firstName"])
	assert.Equal(t, "in_progress", data["status"])
	assert.Equal(t, "2025-01-27T10:30:00Z", data["createdAt"])
	assert.NotContains(t, data, "adminNotes")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetUnknownID executes a GET request with a well formed but unknown id. It expects that the
// HTTP request is answered with the NOT FOUND status code.
func TestGetUnknownID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectQuery("SELECT (.+) FROM contact_requests WHERE id").
		WithArgs(otherId).
		WillReturnRows(mock.NewRows(columns))

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests/"+otherId, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	expectMessage(t, recorder, "contact request not found")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetInvalidID executes a GET request with an id that is not a UUID. It expects that the HTTP
// request is answered with the NOT FOUND status code without reaching out to the database.
func TestGetInvalidID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)

	// Run test and compare results
	recorder := runTest(t, db, "GET", "/admin/contact-requests/INVALID", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	expectMessage(t, recorder, "invalid id parameter")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPatch executes a PATCH request that changes the status and the notes. It expects that the
// HTTP request is answered with the OK status code and the updated contact request.
func TestPatch(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec(`UPDATE contact_requests SET status=\?, admin_notes=\?, updated_at=\? WHERE id=\?`).
		WithArgs("contacted", "call back on Monday", fixedNow, fixedId).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectSingleRowSelect(mock, fixedId, "contacted")

	// Run test and compare results
	recorder := runTest(t, db, "PATCH", "/admin/contact-requests/"+fixedId, `
		{
			"status": "contacted",
			"adminNotes": "call back on Monday"
		}
	`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body apimodel.Response[apimodel.ContactRequest]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, fixedId, body.Data.Id)
	assert.Equal(t, apimodel.StatusContacted, body.Data.Status)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPatchUnknownID executes a PATCH request for an id that does not exist. It expects that the
// HTTP request is answered with the NOT FOUND status code.
func TestPatchUnknownID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec("UPDATE contact_requests").
		WithArgs("closed", fixedNow, otherId).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Run test and compare results
	recorder := runTest(t, db, "PATCH", "/admin/contact-requests/"+otherId, `{"status": "closed"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestPatchInvalidBodies executes PATCH requests with a valid id but invalid bodies. It expects
// that the HTTP requests are all answered with the BAD REQUEST status code.
func TestPatchInvalidBodies(t *testing.T) {
	invalidRequestBodies := map[string]string{
		"":                       "Invalid JSON data",
		"not JSON":               "Invalid JSON data",
		"{}":                     "no values to be updated",
		`{"status": "archived"}`: "invalid status: archived",

		`{"adminNotes": "` + strings.Repeat("x", 5001) + `"}`: "adminNotes must be at most 5000 characters",
	}
	for body, message := range invalidRequestBodies {
		db, mock := createMockObjects(t)
		expectPreparedStatements(mock) // we expect that the call will fail before the SQL statements

		recorder := runTest(t, db, "PATCH", "/admin/contact-requests/"+fixedId, body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
		expectMessage(t, recorder, message)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		db.Close()
	}
}

// TestBulkStatus executes a bulk status change for two contact requests. It expects a message in
// the words of the admin actions and the number of updated rows.
func TestBulkStatus(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec(`UPDATE contact_requests SET status=\?, updated_at=\? WHERE id IN \(\?, \?\)`).
		WithArgs("in_progress", fixedNow, fixedId, otherId).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// Run test and compare results
	recorder := runTest(t, db, "POST", "/admin/contact-requests/status",
		`{"ids": ["`+fixedId+`", "`+otherId+`"], "status": "in_progress"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body apimodel.Response[apimodel.BulkStatusResult]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "2 contact requests marked as in progress.", body.Message)
	assert.Equal(t, int64(2), body.Data.Updated)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestBulkStatusInvalidBodies executes bulk status changes with invalid bodies. It expects that
// the HTTP requests are all answered with the BAD REQUEST status code.
func TestBulkStatusInvalidBodies(t *testing.T) {
	invalidRequestBodies := map[string]string{
		"not JSON":                                    "Invalid JSON data",
		`{"status": "closed"}`:                        "Missing required fields: ids",
		`{"ids": ["` + fixedId + `"]}`:                "Missing required fields: status",
		`{"ids": ["` + fixedId + `"], "status": "x"}`: "invalid status: x",
		`{"ids": ["nope"], "status": "closed"}`:       "invalid id: nope",
	}
	for body, message := range invalidRequestBodies {
		db, mock := createMockObjects(t)
		expectPreparedStatements(mock)

		recorder := runTest(t, db, "POST", "/admin/contact-requests/status", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
		expectMessage(t, recorder, message)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
		db.Close()
	}
}

// TestDelete executes a DELETE request for a single contact request with a valid id. It expects
// that the status OK is returned.
func TestDelete(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec("DELETE FROM contact_requests").
		WithArgs(fixedId).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Run test and compare results
	recorder := runTest(t, db, "DELETE", "/admin/contact-requests/"+fixedId, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteUnknownID executes a DELETE request with a well formed but unknown id. It expects that
// the HTTP request is answered with the NOT FOUND status code.
func TestDeleteUnknownID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectExec("DELETE FROM contact_requests").
		WithArgs(otherId).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Run test and compare results
	recorder := runTest(t, db, "DELETE", "/admin/contact-requests/"+otherId, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteInvalidID executes a DELETE request with an id that is not a UUID. It expects that the
// HTTP request is answered with the NOT FOUND status code without reaching out to the database.
func TestDeleteInvalidID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)

	// Run test and compare results
	recorder := runTest(t, db, "DELETE", "/admin/contact-requests/INVALID", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestHealth verifies that the health endpoint reflects the result of a database ping.
func TestHealth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	// Run test and compare results
	router := initializeService(t, db, testConfig(), zap.NewNop())
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, "GET", "/healthz", "").Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
