// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package preprocess

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/reviewlake/internal/models"
)

// ErrRejected marks a record dropped by quality validation. Callers count
// rejections and continue with the rest of the batch.
var ErrRejected = errors.New("preprocess: record rejected")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// qualityValidator returns the shared validator instance. validator/v10
// caches struct metadata, so one instance serves the whole pipeline.
func qualityValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// CheckQuality validates a normalized document and returns an ErrRejected
// error when it must be dropped:
//
//   - reviewer, product, rating, and original category must be present
//     (struct tags), with the rating inside [1, 5];
//   - the document must carry review text or a summary;
//   - a record whose reviewer and product both normalized to the UNKNOWN
//     sentinel carries no identity at all and is rejected even though the
//     sentinels are non-empty strings.
//
// CheckQuality judges the output of Normalize, so field-level coercion
// failures (already defaulted) never surface here.
func CheckQuality(doc *models.ReviewDocument) error {
	if doc.ReviewerID == models.UnknownID && doc.ProductID == models.UnknownID {
		return fmt.Errorf("%w: no reviewer or product identity", ErrRejected)
	}

	if err := qualityValidator().Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrRejected, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %s", ErrRejected, err)
	}
	return nil
}
