package types

// 数据维度常量定义
const (
	MaxVars  = 3 // 最大自变量个数
	MaxPower = 6 // 幂和表最高总次数（三次拟合法方程需要 x^6）
)

// 默认参数常量定义
var (
	DefaultCapacity    = 100000 // 数据集默认容量（行）
	DefaultDemingDelta = 1.0    // Deming 回归默认误差方差比
)
