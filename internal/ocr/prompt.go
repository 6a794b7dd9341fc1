// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import "fmt"

// ocrSystemPrompt primes the transcription model. The model sees one page
// image at a time and must answer with markdown only.
const ocrSystemPrompt = `You are an expert OCR assistant. Extract all text from the provided image
and format it as clean, well-structured markdown. Preserve the document structure, headings,
lists, tables, and formatting as much as possible. Output only the markdown content without
any additional commentary or explanation.`

// refineSystemPrompt primes the refinement model, which re-reads the page
// image alongside the first-pass transcription.
const refineSystemPrompt = `You are an expert text refinement specialist. Your task is to improve OCR-extracted text by:

1. Correcting OCR misrecognitions and errors
2. Fixing formatting issues, spacing, and line breaks
3. Improving markdown structure and consistency
4. Preserving the original document structure and meaning
5. Using the provided image as reference to verify accuracy

Output only the refined markdown content without any commentary.`

const ocrUserPrompt = "Extract all text from this image and format as markdown:"

// refineUserPrompt embeds the first-pass transcription into the
// refinement request.
func refineUserPrompt(draft string) string {
	return fmt.Sprintf("Here is raw OCR text that may contain errors. Please refine and correct it using the image as reference:\n\n%s", draft)
}
