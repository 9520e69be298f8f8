// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package preprocess

import (
	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/models"
)

// Enrich derives the category metadata for a document from the catalog:
// the category group, the analysis type derived from that group, and the
// original category itself. Unknown categories enrich to the Other group.
// Partition membership is decided from these values at insertion time;
// later category changes are not reflected in partitions.
func Enrich(doc *models.ReviewDocument, category string) {
	group := catalog.Group(category)
	doc.CategoryGroup = group
	doc.AnalysisType = catalog.AnalysisTypeFor(group)
	doc.OriginalCategory = category
}
