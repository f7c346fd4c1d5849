package trainer

import "github.com/verseml/poetgpt/net/transformer"

// Resume loads previously saved weights into the model when asked to.
func Resume(m *transformer.Model, resume *bool, dstmodel *string) {
	if resume != nil && *resume && dstmodel != nil && *dstmodel != "" {
		err := m.ReadWeightsFromFile(*dstmodel)
		if err != nil {
			println(err.Error())
		}
	}
}
