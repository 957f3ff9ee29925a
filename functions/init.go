package functions

// 初始化内置聚合函数
func init() {
	registerBuiltinAggregates(globalRegistry)
}
