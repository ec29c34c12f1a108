package compat

// UnknownTitle 找不到动态标题键时使用的占位标题
const UnknownTitle = "Unknown"

// Aspect 一条优势或劣势，标题来自动态键名
type Aspect struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Section 优势或劣势部分
type Section struct {
	Aspects []Aspect `json:"aspects"`
}

// Tip 一条相处建议
type Tip struct {
	Tip         string `json:"tip"`
	Description string `json:"description"`
}

// Report 一次兼容性分析的完整结果
type Report struct {
	Strengths  Section `json:"strengths"`
	Weaknesses Section `json:"weaknesses"`
	Tips       []Tip   `json:"tips"`
}
