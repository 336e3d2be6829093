package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TableSourceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	source  TableSource
	context context.Context
}

func (suite *TableSourceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.source = NewTableSource(mock)
	suite.context = context.Background()
}

func (suite *TableSourceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTableSourceTestSuite(t *testing.T) {
	suite.Run(t, new(TableSourceTestSuite))
}

func (suite *TableSourceTestSuite) TestFetch_Success() {
	rows := pgxmock.NewRows([]string{"id", "restaurant_name", "officer_id"}).
		AddRow("1", "Lahore Grill", float64(7)).
		AddRow("2", "Karahi House", nil)

	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "treated_restaurant_data" ORDER BY ctid`)).
		WillReturnRows(rows)

	records, err := suite.source.Fetch(suite.context, models.TableRestaurants)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 2)
	assert.Equal(suite.T(), "Lahore Grill", records[0]["restaurant_name"])
	assert.Equal(suite.T(), float64(7), records[0]["officer_id"])
	assert.Nil(suite.T(), records[1]["officer_id"])

	restaurants, report := reconciler.NormalizeRestaurants(records)
	require.Len(suite.T(), restaurants, 2)
	assert.Equal(suite.T(), "7", restaurants[0].OfficerID)
	assert.Contains(suite.T(), report.MissingColumns, "treated_restaurant_data.compliance_status")
}

func (suite *TableSourceTestSuite) TestFetch_Empty() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notice_followup_tracking" ORDER BY ctid`)).
		WillReturnRows(pgxmock.NewRows([]string{"restaurant_id"}))

	records, err := suite.source.Fetch(suite.context, models.TableNoticeFollowups)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)
}

func (suite *TableSourceTestSuite) TestFetch_ComplianceUpdatesInPhysicalOrder() {
	rows := pgxmock.NewRows([]string{"restaurant_id", "formality_status"}).
		AddRow("42", "Registered & Filing").
		AddRow("42", "Registered but Not Filing")

	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "officer_compliance_updates" ORDER BY ctid`)).
		WillReturnRows(rows)

	records, err := suite.source.Fetch(suite.context, models.TableComplianceUpdates)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 2)
	assert.Equal(suite.T(), "Registered but Not Filing", records[1]["formality_status"])
}

func (suite *TableSourceTestSuite) TestFetch_QueryErrorIsDataUnavailable() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notice_skip_reasons" ORDER BY ctid`)).
		WillReturnError(errors.New("connection reset"))

	records, err := suite.source.Fetch(suite.context, models.TableSkipReasons)
	assert.Nil(suite.T(), records)
	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)

	var unavailable *reconciler.DataUnavailableError
	require.ErrorAs(suite.T(), err, &unavailable)
	assert.Equal(suite.T(), models.TableSkipReasons, unavailable.Table)
}

func (suite *TableSourceTestSuite) TestFetch_UnknownTableRejected() {
	records, err := suite.source.Fetch(suite.context, `users; DROP TABLE users`)
	assert.Nil(suite.T(), records)
	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
}

func (suite *TableSourceTestSuite) TestPing() {
	suite.mock.ExpectPing()
	assert.NoError(suite.T(), suite.source.Ping(suite.context))
}
