package domain

import "strconv"

// Rating é a pontuação do usuário numa categoria. "Sem rating" é modelado
// como *Rating nil, não como erro.
type Rating uint64

func (r Rating) String() string { return strconv.FormatUint(uint64(r), 10) }

// Document é o corpo cru da página de perfil.
type Document string
