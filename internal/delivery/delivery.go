// Package delivery hands finished export artifacts to their destination:
// a local directory, an S3-compatible bucket or an HTTP response.
//
// Every deliverer satisfies export.Deliverer and reports failures wrapped in
// common.ErrDeliveryFailure.
package delivery

import (
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/common"
)

func failure(filename string, err error) error {
	return fmt.Errorf("deliver %s: %w: %v", filename, common.ErrDeliveryFailure, err)
}
