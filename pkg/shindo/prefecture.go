package shindo

// prefectures is the fixed JMA prefecture code table, in code order.
var prefectures = []struct {
	code int
	name string
}{
	{10, "北海道"},
	{20, "青森県"},
	{21, "岩手県"},
	{22, "宮城県"},
	{23, "秋田県"},
	{24, "山形県"},
	{25, "福島県"},
	{30, "茨城県"},
	{31, "栃木県"},
	{32, "群馬県"},
	{33, "埼玉県"},
	{34, "千葉県"},
	{35, "東京都"},
	{36, "神奈川県"},
	{37, "新潟県"},
	{38, "富山県"},
	{39, "石川県"},
	{40, "福井県"},
	{41, "山梨県"},
	{42, "長野県"},
	{43, "岐阜県"},
	{44, "静岡県"},
	{45, "愛知県"},
	{46, "三重県"},
	{50, "滋賀県"},
	{51, "京都府"},
	{52, "大阪府"},
	{53, "兵庫県"},
	{54, "奈良県"},
	{55, "和歌山県"},
	{56, "鳥取県"},
	{57, "島根県"},
	{58, "岡山県"},
	{59, "広島県"},
	{60, "徳島県"},
	{61, "香川県"},
	{62, "愛媛県"},
	{63, "高知県"},
	{70, "山口県"},
	{71, "福岡県"},
	{72, "佐賀県"},
	{73, "長崎県"},
	{74, "熊本県"},
	{75, "大分県"},
	{76, "宮崎県"},
	{77, "鹿児島県"},
	{80, "沖縄県"},
}

func prefectureTable() *codeTable {
	t := newCodeTable(len(prefectures))
	for _, p := range prefectures {
		t.add(p.code, p.name)
	}
	return t
}
