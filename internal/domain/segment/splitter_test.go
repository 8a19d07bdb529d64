package segment_test

import (
	"testing"

	segment "github.com/okian/viva/internal/domain/segment"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitter_Split(t *testing.T) {
	Convey("Given a splitter with defaults", t, func() {
		sp := segment.NewSplitter()

		Convey("When the block has a labeled separator token", func() {
			res := sp.Split("What is entropy?\nAnswer: A measure of disorder.")

			Convey("Then it should split at the separator", func() {
				So(res.Strategy, ShouldEqual, segment.StrategySeparatorToken)
				So(res.Prompt, ShouldEqual, "What is entropy?")
				So(res.Response, ShouldEqual, "A measure of disorder.")
			})
		})

		Convey("When the separator keyword appears without punctuation", func() {
			res := sp.Split("Define enthalpy Response heat content of a system")

			Convey("Then it should split at the bare keyword", func() {
				So(res.Strategy, ShouldEqual, segment.StrategySeparatorWord)
				So(res.Prompt, ShouldEqual, "Define enthalpy")
				So(res.Response, ShouldEqual, "heat content of a system")
			})
		})

		Convey("When only a blank line separates prompt from text", func() {
			res := sp.Split("State the second law of thermodynamics\n\nHeat flows from hot to cold spontaneously")

			Convey("Then the first paragraph should become the prompt", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyParagraph)
				So(res.Prompt, ShouldEqual, "State the second law of thermodynamics")
				So(res.Response, ShouldEqual, "Heat flows from hot to cold spontaneously")
			})
		})

		Convey("When the block carries a directive phrase", func() {
			res := sp.Split("Describe the causes of the industrial revolution. Explain. Steam power and capital accumulation drove it.")

			Convey("Then the split should come right after the directive", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyDirective)
				So(res.Prompt, ShouldEndWith, "Explain.")
				So(res.Response, ShouldEqual, "Steam power and capital accumulation drove it.")
			})
		})

		Convey("When only a question mark marks the prompt", func() {
			res := sp.Split("Why did the empire decline? It overextended its supply lines.")

			Convey("Then everything through the question mark should be the prompt", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyQuestionMark)
				So(res.Prompt, ShouldEqual, "Why did the empire decline?")
				So(res.Response, ShouldEqual, "It overextended its supply lines.")
			})
		})

		Convey("When no heuristic matches", func() {
			res := sp.Split("a plain block of prose with nothing to anchor on")

			Convey("Then the whole text should become the response", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyFallback)
				So(res.Prompt, ShouldEqual, "")
				So(res.Response, ShouldEqual, "a plain block of prose with nothing to anchor on")
			})
		})

		Convey("When the block starts with an identity line", func() {
			res := sp.Split("Name: Jane Doe\nWhat is entropy?\nAnswer: disorder")

			Convey("Then the identity line should not leak into either side", func() {
				So(res.Prompt, ShouldNotContainSubstring, "Jane Doe")
				So(res.Response, ShouldNotContainSubstring, "Jane Doe")
				So(res.Prompt, ShouldEqual, "What is entropy?")
			})
		})

		Convey("When the input is empty", func() {
			res := sp.Split("")

			Convey("Then it should degrade to the fallback without error", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyFallback)
				So(res.Prompt, ShouldEqual, "")
				So(res.Response, ShouldEqual, "")
			})
		})

		Convey("When splitting any input", func() {
			inputs := []string{
				"What is entropy?\nAnswer: disorder",
				"prose only",
				"a?\n\nb",
				"   \n\t ",
			}

			Convey("Then prompt plus response never exceeds the original", func() {
				for _, in := range inputs {
					res := sp.Split(in)
					So(len(res.Prompt)+len(res.Response), ShouldBeLessThanOrEqualTo, len(in))
				}
			})

			Convey("And the result is deterministic", func() {
				for _, in := range inputs {
					So(sp.Split(in), ShouldResemble, sp.Split(in))
				}
			})
		})
	})

	Convey("Given a splitter with custom vocabulary", t, func() {
		sp := segment.NewSplitter(
			segment.WithSeparators([]string{"cevap"}),
			segment.WithDirectives([]string{"Aciklayiniz"}),
		)

		Convey("When the block uses the custom separator", func() {
			res := sp.Split("Soru metni Cevap: ogrenci cevabi")

			Convey("Then it should split on it", func() {
				So(res.Strategy, ShouldEqual, segment.StrategySeparatorToken)
				So(res.Prompt, ShouldEqual, "Soru metni")
				So(res.Response, ShouldEqual, "ogrenci cevabi")
			})
		})

		Convey("When the block ends a prompt with the custom directive", func() {
			res := sp.Split("Sanayi devriminin nedenlerini Aciklayiniz. Buhar gucu ve sermaye.")

			Convey("Then the directive should stay in the prompt", func() {
				So(res.Strategy, ShouldEqual, segment.StrategyDirective)
				So(res.Prompt, ShouldEndWith, "Aciklayiniz.")
			})
		})
	})
}
