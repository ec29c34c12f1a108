package llm

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// displayDate 与移动端 medium 日期样式一致
const displayDate = "Jan 2, 2006"

const systemPrompt = "You are a helpful and spiritual astrological assistant. Produce your output as a json exactly like the following format."

// 单样本示例：让模型照着这个结构输出
const sampleMessage = `Provide an analysis of Teddy (born on Apr 21, 2003) and Blake (born on october 21st, 2003)'s relationship compatibility. List strengths, weaknesses, and tips for success.`

const sampleResponse = `{
  "Strengths": {
    "Aspects": [
      {
        "Compatibility": "Solid",
        "Description": "As both Teddy (Taurus) and Blake (Libra) are ruled by Venus, the planet of love and beauty, they share a love for aesthetics, comfort, and harmony. This mutual appreciation can create a strong bond."
      },
      {
        "Communication": "Effective",
        "Description": "Libra's sociability and charm combined with Taurus's sincerity can lead to effective and meaningful communication. They often understand each other's needs and desires."
      },
      {
        "Balance": "Complementary",
        "Description": "Libra's intellectual and social strengths complement Taurus's grounded and practical nature. This can lead to a balanced relationship where each fills in the gaps for the other."
      }
    ]
  },
  "Weaknesses": {
    "Aspects": [
      {
        "Decision-Making": "Challenging",
        "Description": "Taurus can be stubborn while Libra is indecisive, making it difficult for them to make decisions together. This can lead to frustration and conflict."
      },
      {
        "Social Preferences": "Clashing",
        "Description": "Libra enjoys socializing and engaging in social activities, whereas Taurus may prefer a more quiet and home-centered life. This difference can cause tension."
      },
      {
        "Conflict Resolution": "Imbalance",
        "Description": "Libra tends to avoid conflict and seeks harmony, while Taurus can be unyielding and persistent during disagreements, potentially leading to unresolved issues."
      }
    ]
  },
  "Tips": [
    {
      "Tip": "Enhance Communication",
      "Description": "Open and honest communication is key. Regularly discuss any issues or concerns to prevent misunderstandings from festering."
    },
    {
      "Tip": "Find Common Ground",
      "Description": "Engage in activities that both enjoy to strengthen the bond. This could be anything from artistic endeavors to enjoying nature."
    },
    {
      "Tip": "Compromise",
      "Description": "Both should learn to compromise, balancing Taurus's persistence with Libra's need for harmony. This can help in decision-making and conflict resolution."
    }
  ]
}`

// CompatibilityPrompt 生成用户侧的分析请求文本
func CompatibilityPrompt(user, partner dm.Person, kind dm.Kind) string {
	return fmt.Sprintf(`Provide an analysis of %s (born on %s) and %s (born on %s)'s %s compatibility. List strengths, weaknesses, and tips for success. Produce your output as a json, with "Strengths", "Weaknesses", and "Tips" as keys.`,
		user.Name, user.Birthday.Format(displayDate),
		partner.Name, partner.Birthday.Format(displayDate),
		kind)
}

// BuildCompatibilityMessages 组装 system + 单样本示例 + 用户请求
func BuildCompatibilityMessages(user, partner dm.Person, kind dm.Kind) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(sampleMessage),
		schema.AssistantMessage(sampleResponse, nil),
		schema.UserMessage(CompatibilityPrompt(user, partner, kind)),
	}
}
