package fit

import "errors"

// 拟合无法进行的错误，调用方用 errors.Is 判别
var (
	ErrInsufficientData = errors.New("fit: not enough data points (NDF < 0)")
	ErrSingular         = errors.New("fit: could not determine fit parameters")
	ErrDegenerate       = errors.New("fit: degenerate data (zero x-y covariance)")
	ErrNoVertex         = errors.New("fit: could not determine critical point")
	ErrInvalidConfig    = errors.New("fit: invalid configuration")
)

// 拟合区域调整提示
const regionHint = "perhaps there are not enough data points to perform a fit, " +
	"otherwise try adjusting the fit range using UPPER_LIMITS and LOWER_LIMITS"
