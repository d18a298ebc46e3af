package domain

// RefreshCounts aggregates the outcome of a single center's refresh.
type RefreshCounts struct {
	OfficesFetched                int `json:"officesFetched"`
	OfficesMatched                int `json:"officesMatched"`
	OfficesFilteredOutNoCompany   int `json:"officesFilteredOutNoCompanyMatch"`
	LinksUpserted                 int `json:"linksUpserted"`
	PrunedLinks                   int `json:"prunedLinks"`
	WikidataEntitiesFetched       int `json:"wikidataEntitiesFetched"`
	WikidataOfficesUpdated        int `json:"wikidataOfficesUpdated"`
}

// Add accumulates another center's counts into a batch total.
func (c *RefreshCounts) Add(o RefreshCounts) {
	c.OfficesFetched += o.OfficesFetched
	c.OfficesMatched += o.OfficesMatched
	c.OfficesFilteredOutNoCompany += o.OfficesFilteredOutNoCompany
	c.LinksUpserted += o.LinksUpserted
	c.PrunedLinks += o.PrunedLinks
	c.WikidataEntitiesFetched += o.WikidataEntitiesFetched
	c.WikidataOfficesUpdated += o.WikidataOfficesUpdated
}

// RefreshAllResult is the aggregated outcome of run_refresh_all.
type RefreshAllResult struct {
	RefreshCounts
	CentersProcessed int  `json:"centersProcessed"`
	CentersFailed    int  `json:"centersFailed"`
	OK               bool `json:"ok"`
}

// RefreshStateCursorKey is the distinguished refresh_state key storing the
// last-processed center id for the scheduled batch refresh.
const RefreshStateCursorKey = "center_cursor"
