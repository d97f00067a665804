package knowledge

// Synonym maps a canonical symptom key to the phrases users type for it.
type Synonym struct {
	Key      string   `json:"key" yaml:"key"`
	Variants []string `json:"variants" yaml:"variants"`
}

// defaultSynonyms is ordered: normalization takes the first entry that matches.
// The first fourteen entries are the symptoms offered as quick picks on the
// checker form; the rest are keys referenced only by condition records.
var defaultSynonyms = []Synonym{
	{Key: "headache", Variants: []string{"head pain", "migraine", "tension headache"}},
	{Key: "fever", Variants: []string{"high temperature", "pyrexia", "elevated temperature"}},
	{Key: "cough", Variants: []string{"persistent cough", "dry cough", "productive cough"}},
	{Key: "fatigue", Variants: []string{"tiredness", "exhaustion", "weakness", "lethargy"}},
	{Key: "nausea", Variants: []string{"feeling sick", "queasiness", "stomach upset"}},
	{Key: "dizziness", Variants: []string{"lightheadedness", "vertigo", "unsteadiness"}},
	{Key: "chest pain", Variants: []string{"chest discomfort", "chest tightness", "cardiac pain"}},
	{Key: "shortness of breath", Variants: []string{"breathing difficulty", "dyspnea", "breathlessness"}},
	{Key: "abdominal pain", Variants: []string{"stomach pain", "belly pain", "gastric pain"}},
	{Key: "joint pain", Variants: []string{"arthralgia", "joint aches", "joint stiffness"}},
	{Key: "skin rash", Variants: []string{"rash", "skin irritation", "dermatitis", "hives"}},
	{Key: "sore throat", Variants: []string{"throat pain", "pharyngitis", "throat irritation"}},
	{Key: "back pain", Variants: []string{"lower back pain", "spine pain", "lumbar pain"}},
	{Key: "muscle aches", Variants: []string{"myalgia", "muscle pain", "muscle soreness"}},

	{Key: "stress", Variants: []string{"feeling stressed", "under pressure"}},
	{Key: "runny nose", Variants: []string{"nasal congestion", "stuffy nose", "rhinorrhea"}},
	{Key: "diarrhea", Variants: []string{"diarrhoea", "loose stools"}},
	{Key: "vision changes", Variants: []string{"blurred vision", "visual disturbance"}},
	{Key: "sensitivity to light", Variants: []string{"photophobia", "light sensitivity"}},
	{Key: "confusion", Variants: []string{"disorientation", "confused"}},
	{Key: "swelling", Variants: []string{"edema", "oedema", "swollen"}},
}

// QuickPickCount is the number of leading synonym entries shown as quick picks.
const QuickPickCount = 14
