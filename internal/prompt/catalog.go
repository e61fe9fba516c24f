package prompt

// AnalysisType тег встроенного шаблона промпта.
type AnalysisType string

const (
	Detailed  AnalysisType = "detailed"
	Story     AnalysisType = "story"
	Technical AnalysisType = "technical"
	Creative  AnalysisType = "creative"
)

// templates неизменяемая таблица встроенных инструкций для модели.
// Тексты — статический контент, а не логика: каждый шаблон задаёт свой жанр ответа.
var templates = map[AnalysisType]string{
	Detailed: `Analyze this image in comprehensive detail:
1. Main subjects, objects, and people
2. Scene setting and environment
3. Colors, lighting, shadows, and composition
4. Mood, atmosphere, and emotions conveyed
5. Any visible text or signs
6. Quality, style, and artistic elements
7. Context and possible purpose
8. Notable or unique details`,

	Story: `Create a rich, engaging story based on this image:
- Describe what's happening right now
- Imagine the backstory and context
- Develop the characters or subjects
- Explore emotions and relationships
- Predict what might happen next
- Make it vivid and compelling!`,

	Technical: `Provide expert technical analysis:
- Composition techniques (rule of thirds, leading lines, etc.)
- Lighting setup and quality (natural/artificial, direction, softness)
- Color grading and palette
- Depth of field and focus points
- Camera settings estimation (aperture, shutter, ISO if applicable)
- Post-processing techniques visible
- Image quality and resolution
- Professional photography principles applied`,

	Creative: `Deep creative analysis:
- Artistic style and influences
- Symbolism and metaphors
- Cultural or historical context
- Emotional and psychological impact
- Narrative and storytelling elements
- Potential interpretations
- How it relates to art movements or genres`,
}

// Resolve возвращает текст промпта для запроса к модели.
// Непустой custom перекрывает таблицу целиком и возвращается как есть.
// Неизвестный тег откатывается к Detailed, поэтому результат всегда непустой.
func Resolve(t AnalysisType, custom string) string {
	if custom != "" {
		return custom
	}
	if tpl, ok := templates[t]; ok {
		return tpl
	}
	return templates[Detailed]
}

// Types перечисляет известные теги анализа в фиксированном порядке.
func Types() []AnalysisType {
	return []AnalysisType{Detailed, Story, Technical, Creative}
}
