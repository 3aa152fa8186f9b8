package symbols

import (
	"fmt"
	"sync/atomic"
)

var labelCount atomic.Uint64

// GenerateLabel returns a fresh label named LabelN. N is process-wide, so
// labels from different lowering passes never collide.
func GenerateLabel() *LabelSymbol {
	return NewLabel(fmt.Sprintf("Label%d", labelCount.Add(1)))
}
