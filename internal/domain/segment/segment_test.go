package segment_test

import (
	"testing"

	segment "github.com/okian/viva/internal/domain/segment"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSegmenter_Segment(t *testing.T) {
	Convey("Given a segmenter with the default marker label", t, func() {
		seg := segment.NewSegmenter()

		Convey("When segmenting a document with two markers", func() {
			text := "Name: Jane Doe\nQuestion 1: What is entropy?\nAnswer: A measure of disorder.\nQuestion 2: Define enthalpy.\nAnswer: Heat content."
			blocks := seg.Segment(text)

			Convey("Then it should produce exactly two blocks in document order", func() {
				So(blocks, ShouldHaveLength, 2)
				So(blocks[0].ItemID, ShouldEqual, "1")
				So(blocks[1].ItemID, ShouldEqual, "2")
			})

			Convey("And block contents should partition the text after the first marker", func() {
				So(blocks[0].RawText, ShouldEqual, "What is entropy?\nAnswer: A measure of disorder.")
				So(blocks[1].RawText, ShouldEqual, "Define enthalpy.\nAnswer: Heat content.")
			})

			Convey("And text before the first marker should be discarded", func() {
				for _, b := range blocks {
					So(b.RawText, ShouldNotContainSubstring, "Jane Doe")
				}
			})
		})

		Convey("When the document has no markers", func() {
			blocks := seg.Segment("just some prose with no items at all")

			Convey("Then it should return an empty sequence", func() {
				So(blocks, ShouldBeEmpty)
			})
		})

		Convey("When markers vary in case and punctuation", func() {
			text := "question 1. first body QUESTION 2: second body"
			blocks := seg.Segment(text)

			Convey("Then both forms should be recognized", func() {
				So(blocks, ShouldHaveLength, 2)
				So(blocks[0].RawText, ShouldEqual, "first body")
				So(blocks[1].RawText, ShouldEqual, "second body")
			})
		})

		Convey("When ids are zero-padded", func() {
			text := "Question 01: padded Question 1: plain"
			blocks := seg.Segment(text)

			Convey("Then the ids stay distinct decimal strings", func() {
				So(blocks, ShouldHaveLength, 2)
				So(blocks[0].ItemID, ShouldEqual, "01")
				So(blocks[1].ItemID, ShouldEqual, "1")
			})
		})

		Convey("When markers appear out of numeric order", func() {
			text := "Question 10: tenth Question 2: second Question 1: first"
			blocks := seg.Segment(text)

			Convey("Then Segment should keep document order", func() {
				So(blocks[0].ItemID, ShouldEqual, "10")
				So(blocks[1].ItemID, ShouldEqual, "2")
				So(blocks[2].ItemID, ShouldEqual, "1")
			})

			Convey("And SortNumeric should order by numeric id", func() {
				sorted := segment.SortNumeric(blocks)
				So(sorted[0].ItemID, ShouldEqual, "1")
				So(sorted[1].ItemID, ShouldEqual, "2")
				So(sorted[2].ItemID, ShouldEqual, "10")
				// Input slice is untouched.
				So(blocks[0].ItemID, ShouldEqual, "10")
			})
		})
	})

	Convey("Given a segmenter with a custom marker label", t, func() {
		seg := segment.NewSegmenter(segment.WithMarkerLabel("Soru"))

		Convey("When segmenting text with the custom label", func() {
			blocks := seg.Segment("Soru 1: govde Soru 2: ikinci")

			Convey("Then blocks should follow the custom marker", func() {
				So(blocks, ShouldHaveLength, 2)
				So(blocks[0].RawText, ShouldEqual, "govde")
			})
		})

		Convey("When segmenting text with the default label", func() {
			blocks := seg.Segment("Question 1: body")

			Convey("Then nothing should match", func() {
				So(blocks, ShouldBeEmpty)
			})
		})
	})
}

func TestExtractName(t *testing.T) {
	Convey("Given documents with and without identity lines", t, func() {
		Convey("When the document carries a Name line", func() {
			So(segment.ExtractName("Name: Jane Doe\nQuestion 1: ..."), ShouldEqual, "Jane Doe")
		})

		Convey("When the document carries a Full Name line", func() {
			So(segment.ExtractName("Full Name:  Ali Veli \nmore text"), ShouldEqual, "Ali Veli")
		})

		Convey("When the identity line is mid-document", func() {
			So(segment.ExtractName("preamble\nname: lower case\nrest"), ShouldEqual, "lower case")
		})

		Convey("When there is no identity line", func() {
			So(segment.ExtractName("Question 1: no name here"), ShouldEqual, "")
		})

		Convey("When the text is empty", func() {
			So(segment.ExtractName(""), ShouldEqual, "")
		})
	})
}
