package shell

import (
	"storytrain_landing/internal/page"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type PageConfig struct {
	Title       string
	Description string
}

type station struct {
	Number  string
	Title   string
	Tagline string
	Detail  string
}

var stations = []station{
	{"1", "腦海尋寶", "三鏡觀察法，陪你垂釣靈感", "發掘內心深處的寶藏故事，用系統化方法挖掘生活中的感動時刻"},
	{"2", "書山踏青", "拆解圖文架構，推薦優質參考書單", "學習優秀作品的寫作技巧，建立紮實的故事基礎"},
	{"3", "故事DIY", "選一件事／一個主題", "手把手教學，變成故事初稿，完成你的第一個創作"},
}

// navButton maps a hero button to the section it scrolls to.
type navButton struct {
	Label  string
	Target string
}

var navButtons = []navButton{
	{"腦海尋寶", page.SectionJourney},
	{"書山踏青", page.SectionJourney},
	{"故事DIY", page.SectionCTA},
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.Title == "" {
		config.Title = "觀光列車創作號"
	}
	if config.Description == "" {
		config.Description = "好想把的事變故事"
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("zh-Hant"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),
				Link(Rel("stylesheet"), Href("/static/landing.css")),
			),
			Body(
				g.Group(content),
				Div(ID("toasts"), Class("toasts"), Aria("live", "polite")),
				Script(Src("/static/landing.js"), Defer()),
			),
		),
	})
}

func Hero() g.Node {
	return Header(
		Class("hero"),
		Img(Src("/static/hero.svg"), Alt("好想把的事變故事"), Class("hero-image")),
		Div(
			Class("hero-actions"),
			g.Group(g.Map(navButtons, func(b navButton) g.Node {
				return Button(Type("button"), Class("nav-button"), Data("target", b.Target), g.Text(b.Label))
			})),
		),
	)
}

func Intro() g.Node {
	return Section(
		ID(page.SectionIntro),
		Class("intro"),
		H2(g.Text("創作號帶你發現故事的魔法")),
		P(g.Text("你是否常覺得生活中的點滴，明明充滿感動、驚奇，卻不知如何分享？或是腦中有許多想法，卻難以化為動人的文字？「觀光列車創作號」正是為你打造，我們將帶你探索、採集、編織，讓生命中的每一個「●■▲」都成為獨一無二的故事！")),
	)
}

func Journey() g.Node {
	return g.Group([]g.Node{
		Section(
			ID(page.SectionJourney),
			Class("journey"),
			Img(Src("/static/journey.svg"), Alt("本趟列車沿途停靠站"), Class("journey-image")),
		),
		Section(
			Class("stations"),
			H2(g.Text("旅程站點詳解")),
			Div(
				Class("station-grid"),
				g.Group(g.Map(stations, func(s station) g.Node {
					return Div(
						Class("station"),
						Span(Class("station-number"), g.Text(s.Number)),
						H3(g.Text(s.Title)),
						P(g.Text(s.Tagline)),
						P(g.Text(s.Detail)),
					)
				})),
			),
		),
	})
}

func field(id, label, inputType, placeholder string, required bool) g.Node {
	return Div(
		Class("field"),
		Label(For(id), g.Text(label)),
		Input(
			ID(id),
			Name(id),
			Type(inputType),
			Placeholder(placeholder),
			g.If(required, Required()),
		),
	)
}

func LeadForm() g.Node {
	return Section(
		ID(page.SectionCTA),
		Class("cta"),
		Div(
			Class("gift"),
			H3(g.Text("贈：故事模板／AI助理指令")),
			P(g.Text("只要願意開始，就不怕卡關！")),
		),
		H2(g.Text("限時免費 體驗席")),
		P(g.Text("留下資料，我們將立即寄送「故事模板」與「AI助理指令」給您！")),
		Form(
			ID("form-leads"),
			field("name", "你的姓名：", "text", "請輸入姓名", true),
			field("email", "你的Email：", "email", "請輸入Email", true),
			field("phone", "你的手機：", "tel", "選填：09XX-XXX-XXX", false),
			Button(
				Type("submit"),
				Class("submit"),
				Data("idle-label", "立刻領取創作秘笈！"),
				Data("busy-label", "處理中..."),
				g.Text("立刻領取創作秘笈！"),
			),
		),
	)
}

func PageFooter() g.Node {
	return Footer(
		Class("footer"),
		P(g.Raw("&copy; 2023 觀光列車創作號. All rights reserved.")),
	)
}

// LandingPage is the full shell document.
func LandingPage() g.Node {
	return Layout(
		PageConfig{},
		Hero(),
		Main(
			Intro(),
			Journey(),
			LeadForm(),
		),
		PageFooter(),
	)
}
