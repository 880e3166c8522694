package translator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/richinsley/gotriangle/graphics"
	"github.com/richinsley/gotriangle/shader"
	gst "github.com/richinsley/goshadertranslator"
)

// Translator converts WebGL2 flavoured GLSL ES 3.00 into GLSL 4.10 core.
// The underlying translator is only instantiated on first use since
// starting it is expensive.
type Translator struct {
	once sync.Once
	st   *gst.ShaderTranslator
	err  error
}

// New returns a lazily initialized translator.
func New() *Translator {
	return &Translator{}
}

var _ shader.Translator = (*Translator)(nil)

func (t *Translator) Translate(source string, stage graphics.ShaderStage) (*shader.Translation, error) {
	t.once.Do(func() {
		t.st, t.err = gst.NewShaderTranslator(context.Background())
		if t.err == nil {
			log.Printf("Shader translator initialized")
		}
	})
	if t.err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", t.err)
	}

	out, err := t.st.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	uniforms := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		uniforms[name] = v.MappedName
	}
	return &shader.Translation{Code: out.Code, Uniforms: uniforms}, nil
}
