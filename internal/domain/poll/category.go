package poll

import (
	"strings"

	"golang.org/x/text/width"
)

// DefaultCategory is assigned when no keyword matches the title.
const DefaultCategory = "その他"

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"ライフスタイル", []string{
		"朝食", "昼食", "夕食", "食事", "料理", "ファッション", "服", "趣味", "休日",
		"生活", "家事", "掃除", "洗濯", "インテリア", "部屋", "ペット", "旅行", "温泉",
		"ホテル", "健康", "運動", "ダイエット", "睡眠",
	}},
	{"テクノロジー", []string{
		"スマホ", "パソコン", "pc", "アプリ", "ゲーム", "ai", "プログラミング",
		"ソフトウェア", "ハードウェア", "iphone", "android", "mac", "windows", "it",
		"ネット", "インターネット", "sns", "twitter", "instagram", "youtube", "サイト",
	}},
	{"エンターテイメント", []string{
		"映画", "ドラマ", "アニメ", "漫画", "音楽", "ライブ", "コンサート",
		"アーティスト", "バンド", "アイドル", "芸能人", "タレント", "俳優", "女優",
		"配信", "netflix", "amazon",
	}},
	{"スポーツ", []string{
		"サッカー", "野球", "バスケ", "テニス", "ゴルフ", "ラグビー", "バレー", "水泳",
		"マラソン", "柔道", "格闘技", "オリンピック", "ワールドカップ", "試合", "選手",
		"チーム", "練習",
	}},
	{"政治", []string{
		"選挙", "政治", "政党", "国会", "首相", "大統領", "政策", "法律", "憲法",
		"税金", "外交", "国際", "経済", "株", "景気", "年金", "社会保障",
	}},
}

// SuggestCategory picks a category from keywords found in the title.
// Matching is case-insensitive and width-folded, so full-width latin in
// Japanese titles still hits the ascii keywords.
func SuggestCategory(title string) string {
	folded := strings.ToLower(width.Fold.String(title))

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(folded, keyword) {
				return entry.category
			}
		}
	}

	return DefaultCategory
}
