// Package compat 把聊天模型返回的兼容性分析 JSON 规整为统一的 Report 结构。
//
// 模型输出里每条 aspect 的标题是一个动态键名，值没有意义，
// 只有固定的 "Description" 键携带正文，因此这里不能直接用结构体标签解码。
package compat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	keyStrengths   = "Strengths"
	keyWeaknesses  = "Weaknesses"
	keyTips        = "Tips"
	keyAspects     = "Aspects"
	keyDescription = "Description"
	keyTip         = "Tip"
)

type options struct {
	lexicalTitle bool
}

// Option 调整解码行为
type Option func(*options)

// WithLexicalTitle 当一条 aspect 有多个候选标题键时取字典序最小的键，而不是报错
func WithLexicalTitle() Option {
	return func(o *options) { o.lexicalTitle = true }
}

// Decode 解析模型消息的 content 文本（允许包裹 markdown 代码块）并规整
func Decode(content string, opts ...Option) (*Report, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if !json.Valid([]byte(clean)) {
		return nil, malformed(fmt.Errorf("content is not valid json"))
	}
	return Normalize(json.RawMessage(clean), opts...)
}

// Normalize 将原始 JSON 对象转换为 Report。
// 任何必需字段缺失或类型不符都会使整个解码失败，不返回部分结果。
func Normalize(raw json.RawMessage, opts ...Option) (*Report, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if kindOf(raw) != '{' {
		return nil, malformed(fmt.Errorf("top level is not a json object"))
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, malformed(err)
	}

	strengths, err := decodeSection(top, keyStrengths, o)
	if err != nil {
		return nil, err
	}
	weaknesses, err := decodeSection(top, keyWeaknesses, o)
	if err != nil {
		return nil, err
	}
	tips, err := decodeTips(top)
	if err != nil {
		return nil, err
	}

	return &Report{
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Tips:       tips,
	}, nil
}

func decodeSection(top map[string]json.RawMessage, key string, o *options) (Section, error) {
	sectionRaw, ok := top[key]
	if !ok {
		return Section{}, missingField(key)
	}
	section, err := asObject(sectionRaw, key)
	if err != nil {
		return Section{}, err
	}

	aspectsPath := key + "." + keyAspects
	aspectsRaw, ok := section[keyAspects]
	if !ok {
		return Section{}, missingField(aspectsPath)
	}
	items, err := asArray(aspectsRaw, aspectsPath)
	if err != nil {
		return Section{}, err
	}

	aspects := make([]Aspect, 0, len(items))
	for i, item := range items {
		aspect, err := decodeAspect(item, fmt.Sprintf("%s[%d]", aspectsPath, i), o)
		if err != nil {
			return Section{}, err
		}
		aspects = append(aspects, aspect)
	}
	return Section{Aspects: aspects}, nil
}

// decodeAspect 先取 Description，再在剩余键中找唯一的标题键
func decodeAspect(raw json.RawMessage, path string, o *options) (Aspect, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Aspect{}, err
	}

	descPath := path + "." + keyDescription
	descRaw, hasDesc := obj[keyDescription]

	var titles []string
	for k := range obj {
		if k != keyDescription {
			titles = append(titles, k)
		}
	}
	sort.Strings(titles)

	if len(titles) == 0 {
		// 没有标题键时保留描述，标题用占位符
		aspect := Aspect{Title: UnknownTitle}
		if hasDesc {
			desc, err := asString(descRaw, descPath)
			if err != nil {
				return Aspect{}, err
			}
			aspect.Description = desc
		}
		return aspect, nil
	}
	if len(titles) > 1 && !o.lexicalTitle {
		return Aspect{}, ambiguous(path, titles)
	}

	if !hasDesc {
		return Aspect{}, missingField(descPath)
	}
	desc, err := asString(descRaw, descPath)
	if err != nil {
		return Aspect{}, err
	}
	return Aspect{Title: titles[0], Description: desc}, nil
}

func decodeTips(top map[string]json.RawMessage) ([]Tip, error) {
	tipsRaw, ok := top[keyTips]
	if !ok {
		return nil, missingField(keyTips)
	}
	items, err := asArray(tipsRaw, keyTips)
	if err != nil {
		return nil, err
	}

	tips := make([]Tip, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", keyTips, i)
		obj, err := asObject(item, path)
		if err != nil {
			return nil, err
		}
		tip, err := requiredString(obj, keyTip, path)
		if err != nil {
			return nil, err
		}
		desc, err := requiredString(obj, keyDescription, path)
		if err != nil {
			return nil, err
		}
		tips = append(tips, Tip{Tip: tip, Description: desc})
	}
	return tips, nil
}

func requiredString(obj map[string]json.RawMessage, key, parent string) (string, error) {
	path := parent + "." + key
	raw, ok := obj[key]
	if !ok {
		return "", missingField(path)
	}
	return asString(raw, path)
}

// kindOf 返回 JSON 值的首个有效字符，用于区分对象、数组、字符串和 null
func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func asObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	if kindOf(raw) != '{' {
		return nil, typeMismatch(path, "object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, typeMismatch(path, "object")
	}
	return obj, nil
}

func asArray(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	if kindOf(raw) != '[' {
		return nil, typeMismatch(path, "array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, typeMismatch(path, "array")
	}
	return items, nil
}

func asString(raw json.RawMessage, path string) (string, error) {
	if kindOf(raw) != '"' {
		return "", typeMismatch(path, "string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", typeMismatch(path, "string")
	}
	return s, nil
}
