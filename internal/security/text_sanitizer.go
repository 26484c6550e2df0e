// Package security はユーザー入力の無害化を提供する。
//
// TextSanitizer はチャットの質問文や学習目標のタイトルなど、
// プレーンテキストとして扱うフィールドからマークアップを取り除く。
package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/atom"
)

// TextSanitizer はプレーンテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize はHTML要素を含む入力からタグを除去したテキストを返す。
	// HTML要素を含まない入力（"vector<int>" や "x<y" 等）はそのまま返す。
	// script, styleタグは内容ごと除去される。
	// 応答はJSONで返すため、エスケープされた実体参照は元の文字に戻す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// elementTag は開始・終了・空要素タグの形をした部分に一致する。
var elementTag = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)(?:\s[^<>]*)?/?>`)

type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// ポリシーはbluemondayのStrictPolicy（許可タグなし）。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はHTML要素を含む場合のみタグを除去したテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" || !containsElement(raw) {
		return raw
	}
	return html.UnescapeString(s.policy.Sanitize(raw))
}

// containsElement はHTMLの要素名を持つタグが含まれるかを返す。
// <int> や <T> のような要素名でない山括弧はタグとみなさない。
func containsElement(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	for _, m := range elementTag.FindAllStringSubmatch(s, -1) {
		if isElementName(strings.ToLower(m[1])) {
			return true
		}
	}
	return false
}

func isElementName(name string) bool {
	return knownElements[atom.Lookup([]byte(name))]
}

// knownElements はタグとして扱うHTML要素。属性名だけの atom は含めない。
var knownElements = func() map[atom.Atom]bool {
	elems := []atom.Atom{
		atom.A, atom.Abbr, atom.Address, atom.Area, atom.Article, atom.Aside, atom.Audio,
		atom.B, atom.Base, atom.Bdi, atom.Bdo, atom.Blockquote, atom.Body, atom.Br, atom.Button,
		atom.Canvas, atom.Caption, atom.Cite, atom.Code, atom.Col, atom.Colgroup,
		atom.Dd, atom.Del, atom.Details, atom.Dfn, atom.Dialog, atom.Div, atom.Dl, atom.Dt,
		atom.Em, atom.Embed, atom.Fieldset, atom.Figcaption, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Head, atom.Header, atom.Hr, atom.Html,
		atom.I, atom.Iframe, atom.Img, atom.Input, atom.Ins, atom.Kbd, atom.Label, atom.Legend, atom.Li, atom.Link,
		atom.Main, atom.Mark, atom.Meta, atom.Nav, atom.Noscript, atom.Object, atom.Ol, atom.Optgroup, atom.Option,
		atom.P, atom.Param, atom.Picture, atom.Pre, atom.Q, atom.S, atom.Samp, atom.Script, atom.Section,
		atom.Select, atom.Small, atom.Source, atom.Span, atom.Strong, atom.Style, atom.Sub, atom.Summary, atom.Sup, atom.Svg,
		atom.Table, atom.Tbody, atom.Td, atom.Template, atom.Textarea, atom.Tfoot, atom.Th, atom.Thead,
		atom.Title, atom.Tr, atom.Track, atom.U, atom.Ul, atom.Var, atom.Video, atom.Wbr,
	}
	m := make(map[atom.Atom]bool, len(elems))
	for _, a := range elems {
		m[a] = true
	}
	return m
}()
