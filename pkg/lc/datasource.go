package lc

// DataSource records which dataset import produced a stored record.
type DataSource struct {
	OriginalFormat string `groups:"internal" json:"original_format"`
	Provider       string `groups:"internal" json:"provider"`
	DatasetID      string `groups:"internal" json:"dataset_id"`
	Timestamp      string `groups:"internal" json:"timestamp"`
}
