package datasets

import "fmt"

// DataSource is one document of the registry: a provider and the datasets it
// publishes.
type DataSource struct {
	Identifier string
	Region     string
	Provider   Provider
	Datasets   []DataSet

	SourceAuthentication *SourceAuthentication
}

// Expand returns the datasets with registry wide identifiers. Provider and
// authentication are inherited from the source unless a dataset sets its own.
func (d DataSource) Expand() []DataSet {
	expanded := make([]DataSet, 0, len(d.Datasets))

	for _, dataset := range d.Datasets {
		dataset.Identifier = fmt.Sprintf("%s-%s", d.Identifier, dataset.Identifier)
		dataset.DataSourceRef = d.Identifier

		if dataset.Provider.Name == "" {
			dataset.Provider = d.Provider
		}
		if d.SourceAuthentication != nil && dataset.SourceAuthentication.IsEmpty() {
			dataset.SourceAuthentication = *d.SourceAuthentication
		}

		expanded = append(expanded, dataset)
	}

	return expanded
}
